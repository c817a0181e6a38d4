package controller

import (
	"emojiart-be/internal/dto"
	"emojiart-be/internal/entity"
	"emojiart-be/internal/mapper"
	"emojiart-be/internal/pkg/serverutils"
	"emojiart-be/internal/service"
	"emojiart-be/pkg/emoji"
	"emojiart-be/pkg/geometry"

	"github.com/gofiber/fiber/v2"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	Show(ctx *fiber.Ctx) error
	AddEmoji(ctx *fiber.Ctx) error
	MoveEmoji(ctx *fiber.Ctx) error
	ScaleEmoji(ctx *fiber.Ctx) error
	RemoveEmoji(ctx *fiber.Ctx) error
	MoveSelection(ctx *fiber.Ctx) error
	ScaleSelection(ctx *fiber.Ctx) error
	DeleteSelection(ctx *fiber.Ctx) error
	SetBackground(ctx *fiber.Ctx) error
	ZoomToFit(ctx *fiber.Ctx) error
}

type documentController struct {
	service          service.IDocumentService
	mapper           *mapper.DocumentMapper
	defaultEmojiSize int
	jwtSecret        string
}

func NewDocumentController(service service.IDocumentService, defaultEmojiSize int, jwtSecret string) IDocumentController {
	if defaultEmojiSize <= 0 {
		defaultEmojiSize = 40
	}
	return &documentController{
		service:          service,
		mapper:           mapper.NewDocumentMapper(),
		defaultEmojiSize: defaultEmojiSize,
		jwtSecret:        jwtSecret,
	}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/document/v1")
	h.Use(serverutils.NewJwtMiddleware(c.jwtSecret))
	h.Get("", c.Show)
	h.Get("fit", c.ZoomToFit)
	h.Post("emojis", c.AddEmoji)
	h.Put("emojis/:id/move", c.MoveEmoji)
	h.Put("emojis/:id/scale", c.ScaleEmoji)
	h.Delete("emojis/:id", c.RemoveEmoji)
	h.Post("selection/move", c.MoveSelection)
	h.Post("selection/scale", c.ScaleSelection)
	h.Post("selection/delete", c.DeleteSelection)
	h.Put("background", c.SetBackground)
}

func (c *documentController) stateResponse() dto.DocumentStateResponse {
	st := c.service.State()
	return c.mapper.ToStateResponse(st.Document, st.BackgroundImage, st.FetchStatus)
}

func (c *documentController) Show(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success show document", c.stateResponse()))
}

// AddEmoji accepts document coordinates, or canvas coordinates when a
// viewport is sent along.
func (c *documentController) AddEmoji(ctx *fiber.Ctx) error {
	var req dto.AddEmojiRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}
	if !emoji.IsSingle(req.Text) {
		return entity.ErrInvalidEmoji
	}

	x, y := int(req.X), int(req.Y)
	size := c.defaultEmojiSize
	if req.Viewport != nil {
		vp := geometry.Viewport{
			Size:      geometry.Size{Width: req.Viewport.Width, Height: req.Viewport.Height},
			PanOffset: geometry.Size{Width: req.Viewport.PanX, Height: req.Viewport.PanY},
			ZoomScale: req.Viewport.Zoom,
		}
		x, y = vp.ToDocument(geometry.Point{X: req.X, Y: req.Y})
		size = vp.EmojiSize(float64(c.defaultEmojiSize))
	}
	if req.Size > 0 {
		size = req.Size
	}

	id, err := c.service.AddEmoji(req.Text, x, y, size)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success add emoji", dto.AddEmojiResponse{Id: id}))
}

// emojiId reads :id and checks it names an emoji in the current document.
func (c *documentController) emojiId(ctx *fiber.Ctx) (int, error) {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid emoji id")
	}
	if _, ok := c.service.State().Document.Emoji(id); !ok {
		return 0, entity.ErrNotFound
	}
	return id, nil
}

func (c *documentController) MoveEmoji(ctx *fiber.Ctx) error {
	id, err := c.emojiId(ctx)
	if err != nil {
		return err
	}

	var req dto.MoveEmojiRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Id = id

	if err := c.service.MoveEmoji(req.Id, req.Dx, req.Dy); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success move emoji", c.stateResponse()))
}

func (c *documentController) ScaleEmoji(ctx *fiber.Ctx) error {
	id, err := c.emojiId(ctx)
	if err != nil {
		return err
	}

	var req dto.ScaleEmojiRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}
	req.Id = id

	if err := c.service.ScaleEmoji(req.Id, req.Factor); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success scale emoji", c.stateResponse()))
}

func (c *documentController) RemoveEmoji(ctx *fiber.Ctx) error {
	id, err := c.emojiId(ctx)
	if err != nil {
		return err
	}

	if err := c.service.RemoveEmoji(id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success remove emoji", nil))
}

func (c *documentController) MoveSelection(ctx *fiber.Ctx) error {
	var req dto.SelectionMoveRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.service.MoveEmojis(req.Ids, req.Dx, req.Dy); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success move selection", c.stateResponse()))
}

func (c *documentController) ScaleSelection(ctx *fiber.Ctx) error {
	var req dto.SelectionScaleRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.service.ScaleEmojis(req.Ids, req.Factor); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success scale selection", c.stateResponse()))
}

func (c *documentController) DeleteSelection(ctx *fiber.Ctx) error {
	var req dto.SelectionDeleteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.service.RemoveEmojis(req.Ids); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete selection", c.stateResponse()))
}

// SetBackground returns as soon as the background is committed. A url
// background resolves later; watch fetch_status on the stream.
func (c *documentController) SetBackground(ctx *fiber.Ctx) error {
	var req dto.SetBackgroundRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	bg, err := c.mapper.BackgroundToEntity(dto.BackgroundSnapshot{
		Kind:      req.Kind,
		URL:       req.URL,
		ImageData: req.ImageData,
	})
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := c.service.SetBackground(bg); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success set background", c.stateResponse()))
}

func (c *documentController) ZoomToFit(ctx *fiber.Ctx) error {
	view := geometry.Size{
		Width:  ctx.QueryFloat("width"),
		Height: ctx.QueryFloat("height"),
	}

	img := c.service.State().BackgroundImage
	if img == nil {
		return fiber.NewError(fiber.StatusNotFound, "no background image")
	}

	vp, ok := geometry.ZoomToFit(geometry.Size{Width: float64(img.Width), Height: float64(img.Height)}, view)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "width and height must be positive")
	}

	return ctx.JSON(serverutils.SuccessResponse("Success zoom to fit", dto.ZoomToFitResponse{
		Zoom: vp.ZoomScale,
		PanX: vp.PanOffset.Width,
		PanY: vp.PanOffset.Height,
	}))
}
