package controller

import (
	"emojiart-be/internal/dto"
	"emojiart-be/internal/entity"
	"emojiart-be/internal/mapper"
	"emojiart-be/internal/pkg/serverutils"
	"emojiart-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IPaletteController interface {
	RegisterRoutes(r fiber.Router)
	GetAll(ctx *fiber.Ctx) error
	ShowAt(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	DeleteAt(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	AddEmojis(ctx *fiber.Ctx) error
	RemoveEmoji(ctx *fiber.Ctx) error
}

type paletteController struct {
	service   service.IPaletteService
	mapper    *mapper.PaletteMapper
	jwtSecret string
}

func NewPaletteController(service service.IPaletteService, jwtSecret string) IPaletteController {
	return &paletteController{
		service:   service,
		mapper:    mapper.NewPaletteMapper(),
		jwtSecret: jwtSecret,
	}
}

func (c *paletteController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/palette/v1")
	h.Use(serverutils.NewJwtMiddleware(c.jwtSecret))
	h.Get("", c.GetAll)
	h.Post("", c.Create)
	h.Get("at/:index", c.ShowAt)
	h.Delete("at/:index", c.DeleteAt)
	h.Put(":id", c.Update)
	h.Post(":id/emojis", c.AddEmojis)
	h.Delete(":id/emojis", c.RemoveEmoji)
}

func (c *paletteController) GetAll(ctx *fiber.Ctx) error {
	res := dto.PaletteStoreResponse{
		Name:     c.service.Name(),
		Palettes: c.mapper.ToResponses(c.service.Palettes()),
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get all palettes", res))
}

// ShowAt clamps the index into range, so any integer names a palette.
func (c *paletteController) ShowAt(ctx *fiber.Ctx) error {
	index, err := c.index(ctx)
	if err != nil {
		return err
	}
	res := c.mapper.ToResponse(c.service.PaletteAt(index))
	return ctx.JSON(serverutils.SuccessResponse("Success show palette", res))
}

func (c *paletteController) Create(ctx *fiber.Ctx) error {
	var req dto.InsertPaletteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	p := c.service.InsertPalette(ctx.Context(), req.Name, req.Emojis, req.Index)

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create palette", c.mapper.ToResponse(p)))
}

// DeleteAt refuses to remove the last palette; the response still carries
// the index to select next.
func (c *paletteController) DeleteAt(ctx *fiber.Ctx) error {
	index, err := c.index(ctx)
	if err != nil {
		return err
	}

	next := c.service.RemovePalette(ctx.Context(), index)

	return ctx.JSON(serverutils.SuccessResponse("Success delete palette", dto.RemovePaletteResponse{NextIndex: next}))
}

func (c *paletteController) Update(ctx *fiber.Ctx) error {
	id, err := c.id(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdatePaletteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}
	req.Id = id

	p, ok := c.service.UpdatePalette(ctx.Context(), req.Id, req.Name)
	if !ok {
		return entity.ErrNotFound
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update palette", c.mapper.ToResponse(p)))
}

func (c *paletteController) AddEmojis(ctx *fiber.Ctx) error {
	id, err := c.id(ctx)
	if err != nil {
		return err
	}

	var req dto.AddPaletteEmojisRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}
	req.Id = id

	p, ok := c.service.AddEmojis(ctx.Context(), req.Id, req.Emojis)
	if !ok {
		return entity.ErrNotFound
	}

	return ctx.JSON(serverutils.SuccessResponse("Success add emojis", c.mapper.ToResponse(p)))
}

func (c *paletteController) RemoveEmoji(ctx *fiber.Ctx) error {
	id, err := c.id(ctx)
	if err != nil {
		return err
	}

	var req dto.RemovePaletteEmojiRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}
	req.Id = id

	p, ok := c.service.RemoveEmoji(ctx.Context(), req.Id, req.Emoji)
	if !ok {
		return entity.ErrNotFound
	}

	return ctx.JSON(serverutils.SuccessResponse("Success remove emoji", c.mapper.ToResponse(p)))
}

func (c *paletteController) id(ctx *fiber.Ctx) (int, error) {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid palette id")
	}
	return id, nil
}

func (c *paletteController) index(ctx *fiber.Ctx) (int, error) {
	index, err := ctx.ParamsInt("index")
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid palette index")
	}
	return index, nil
}
