package ports

import (
	"context"
	"time"

	"github.com/imezy/imezy-api/internal/core/domain"
)

// GenerateParams is the subset of engine parameters this gateway forwards.
// Fields irrelevant to a given kind are simply omitted from the JSON body.
type GenerateParams struct {
	Prompt         string `json:"prompt,omitempty"`
	NegativePrompt string `json:"negative_prompt,omitempty"`
	SamplerName    string `json:"sampler_name,omitempty"`
	Steps          int    `json:"steps,omitempty"`
	Width          int    `json:"width,omitempty"`
	Height         int    `json:"height,omitempty"`
	CfgScale       float64 `json:"cfg_scale,omitempty"`
	Seed           int64  `json:"seed,omitempty"`
	BatchSize      int    `json:"batch_size,omitempty"`
	NIter          int    `json:"n_iter,omitempty"`

	// img2img only.
	InitImages        []string `json:"init_images,omitempty"`
	Mask              string   `json:"mask,omitempty"`
	DenoisingStrength float64  `json:"denoising_strength,omitempty"`

	// upscale only.
	Image           string  `json:"image,omitempty"`
	Upscaler        string  `json:"upscaler_1,omitempty"`
	UpscalingResize float64 `json:"upscaling_resize,omitempty"`
}

// ImageCount is the number of images the request will produce, which fixes
// the credit cost before the engine is invoked.
func (p GenerateParams) ImageCount(kind domain.GenerationKind) int {
	if kind == domain.KindUpscale {
		return 1
	}
	iters := p.NIter
	if iters < 1 {
		iters = 1
	}
	batch := p.BatchSize
	if batch < 1 {
		batch = 1
	}
	return iters * batch
}

// GenerationEngine is the external image pipeline, treated as an opaque,
// possibly slow, synchronous call.
type GenerationEngine interface {
	Generate(ctx context.Context, kind domain.GenerationKind, params GenerateParams) (*domain.GenerationResult, error)
}

// ArtifactStore persists engine output so history queries can return the
// generated images later.
type ArtifactStore interface {
	Save(kind domain.GenerationKind, email string, at time.Time, res *domain.GenerationResult) error
	Load(kind domain.GenerationKind, email string, at time.Time) (*domain.GenerationResult, error)
}
