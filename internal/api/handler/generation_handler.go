package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/imezy/imezy-api/internal/core/domain"
	"github.com/imezy/imezy-api/internal/core/ports"
)

type GenerationHandler struct {
	generations ports.GenerationService
}

func NewGenerationHandler(generations ports.GenerationService) *GenerationHandler {
	return &GenerationHandler{generations: generations}
}

type txt2imgRequest struct {
	Prompt         string  `json:"prompt" validate:"required"`
	NegativePrompt string  `json:"negative_prompt"`
	SamplerName    string  `json:"sampler_name"`
	Steps          int     `json:"steps"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	CfgScale       float64 `json:"cfg_scale"`
	Seed           int64   `json:"seed"`
	BatchSize      int     `json:"batch_size"`
	NIter          int     `json:"n_iter"`
}

type img2imgRequest struct {
	txt2imgRequest
	InitImages        []string `json:"init_images" validate:"required,min=1"`
	Mask              string   `json:"mask"`
	DenoisingStrength float64  `json:"denoising_strength"`
}

type upscaleRequest struct {
	Image           string  `json:"image" validate:"required"`
	Upscaler        string  `json:"upscaler_1"`
	UpscalingResize float64 `json:"upscaling_resize"`
}

// Txt2Img handles POST /sdapi/v1/txt2img-auth — the metered text-to-image
// operation: credit pre-check, serialized engine call, debit, record.
func (h *GenerationHandler) Txt2Img(c echo.Context) error {
	email, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req txt2imgRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.generations.Generate(c.Request().Context(), email, domain.KindTxt2Img, req.params())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// Img2Img handles POST /sdapi/v1/img2img-auth.
func (h *GenerationHandler) Img2Img(c echo.Context) error {
	email, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req img2imgRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	params := req.params()
	params.InitImages = req.InitImages
	params.Mask = req.Mask
	params.DenoisingStrength = req.DenoisingStrength

	result, err := h.generations.Generate(c.Request().Context(), email, domain.KindImg2Img, params)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// Upscale handles POST /sdapi/v1/extra-single-image-auth.
func (h *GenerationHandler) Upscale(c echo.Context) error {
	email, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req upscaleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.generations.Generate(c.Request().Context(), email, domain.KindUpscale, ports.GenerateParams{
		Image:           req.Image,
		Upscaler:        req.Upscaler,
		UpscalingResize: req.UpscalingResize,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// Search handles GET /image/search — the caller's generation history with
// stored images attached where still available.
func (h *GenerationHandler) Search(c echo.Context) error {
	email, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	entries, err := h.generations.History(c.Request().Context(), email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}

func (r txt2imgRequest) params() ports.GenerateParams {
	return ports.GenerateParams{
		Prompt:         r.Prompt,
		NegativePrompt: r.NegativePrompt,
		SamplerName:    r.SamplerName,
		Steps:          r.Steps,
		Width:          r.Width,
		Height:         r.Height,
		CfgScale:       r.CfgScale,
		Seed:           r.Seed,
		BatchSize:      r.BatchSize,
		NIter:          r.NIter,
	}
}
