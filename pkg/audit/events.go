package audit

import "time"

// LayerResult names one layer consulted during a resolution and whether it
// produced an override.
type LayerResult struct {
	Layer string
	Found bool
}

// ResolveEventInput describes the fields for a settings-resolved event.
type ResolveEventInput struct {
	ActorID    string
	UserID     string
	TenantID   string
	Channel    string
	Path       string
	Layers     []LayerResult
	Merged     bool
	Metadata   map[string]any
	OccurredAt time.Time
}

// BuildResolveEvent constructs a normalized event for a completed resolution.
func BuildResolveEvent(input ResolveEventInput) Event {
	metadata := cloneMap(input.Metadata)
	if len(input.Layers) > 0 {
		metadata = ensureMetadata(metadata)
		consulted := make([]string, 0, len(input.Layers))
		hits := make([]string, 0, len(input.Layers))
		for _, result := range input.Layers {
			consulted = append(consulted, result.Layer)
			if result.Found {
				hits = append(hits, result.Layer)
			}
		}
		metadata["layers"] = consulted
		if len(hits) > 0 {
			metadata["layer_hits"] = hits
		}
	}
	if input.Merged {
		metadata = ensureMetadata(metadata)
		metadata["merged"] = true
	}

	objectID := input.Path
	if objectID == "" {
		objectID = "<root>"
	}

	return Event{
		Verb:       "settings.resolved",
		ActorID:    input.ActorID,
		UserID:     input.UserID,
		TenantID:   input.TenantID,
		ObjectType: "settings.path",
		ObjectID:   objectID,
		Channel:    input.Channel,
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

func ensureMetadata(metadata map[string]any) map[string]any {
	if metadata == nil {
		return map[string]any{}
	}
	return metadata
}
