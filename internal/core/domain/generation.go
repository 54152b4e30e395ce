package domain

import "time"

// GenerationKind enumerates the metered operations proxied to the engine.
type GenerationKind string

const (
	KindTxt2Img GenerationKind = "txt2img"
	KindImg2Img GenerationKind = "img2img"
	KindUpscale GenerationKind = "upscale"
)

// GenerationRecord is the write-once usage record persisted after a
// successful generation + debit. It is never mutated.
type GenerationRecord struct {
	ID         string         `json:"id"`
	Email      string         `json:"email"`
	Kind       GenerationKind `json:"kind"`
	ImageCount int            `json:"image_count"`
	CreatedAt  time.Time      `json:"created_at"`
}

// GenerationResult carries the engine's output back to the caller: base64
// encoded images plus whatever metadata the engine reported.
type GenerationResult struct {
	Images []string `json:"images"`
	Info   string   `json:"info,omitempty"`
}
