package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/ario/internal/middleware"
	"github.com/example/ario/internal/models"
	"github.com/example/ario/internal/utils"
)

// OrderHandler manages garment orders.
type OrderHandler struct {
	db *gorm.DB
}

// NewOrderHandler constructs an OrderHandler.
func NewOrderHandler(db *gorm.DB) *OrderHandler {
	return &OrderHandler{db: db}
}

type createOrderRequest struct {
	StyleID      string `json:"style_id"`
	Color        string `json:"color"`
	SleeveLength string `json:"sleeve_length"`
	FabricType   string `json:"fabric_type"`
	Comments     string `json:"comments"`
}

// CreateOrder places a new order against an existing style. Orders always
// start in pending status.
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	auth, ok := middleware.CurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	styleID, err := uuid.Parse(req.StyleID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid style id")
	}

	if !models.ValidFabricType(req.FabricType) {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid fabric type")
	}
	if req.SleeveLength != "" && !models.ValidSleeveLength(req.SleeveLength) {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid sleeve length")
	}

	var style models.Style
	if err := h.db.First(&style, "id = ?", styleID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "Fabric style not found")
		}
		return err
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", auth.ID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}
		return err
	}

	order := models.Order{
		UserID:       auth.ID,
		StyleID:      styleID,
		Color:        req.Color,
		SleeveLength: req.SleeveLength,
		FabricType:   req.FabricType,
		Comments:     req.Comments,
		Status:       models.OrderStatusPending,
	}

	if err := h.db.Create(&order).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "order": order})
}

type updateOrderRequest struct {
	StyleID      *string `json:"style_id"`
	Color        *string `json:"color"`
	SleeveLength *string `json:"sleeve_length"`
	FabricType   *string `json:"fabric_type"`
	Comments     *string `json:"comments"`
}

// pendingOwnedOrder loads an order that is still pending and belongs to
// the caller; anything else is reported as not modifiable.
func (h *OrderHandler) pendingOwnedOrder(c *fiber.Ctx, auth middleware.AuthUser, action string) (*models.Order, error) {
	id, err := uuid.Parse(c.Params("orderId"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid order id")
	}

	var order models.Order
	err = h.db.First(&order, "id = ? AND user_id = ? AND status = ?",
		id, auth.ID, models.OrderStatusPending).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fiber.NewError(fiber.StatusNotFound,
				"Order not found, not "+action+", or you are not authorized to "+action+" it")
		}
		return nil, err
	}

	return &order, nil
}

// UpdateOrder modifies a pending order owned by the caller.
func (h *OrderHandler) UpdateOrder(c *fiber.Ctx) error {
	auth, ok := middleware.CurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req updateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.FabricType != nil && !models.ValidFabricType(*req.FabricType) {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid fabric type")
	}
	if req.SleeveLength != nil && !models.ValidSleeveLength(*req.SleeveLength) {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid sleeve length")
	}

	if req.StyleID != nil {
		styleID, err := uuid.Parse(*req.StyleID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid style id")
		}
		var style models.Style
		if err := h.db.First(&style, "id = ?", styleID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fiber.NewError(fiber.StatusNotFound, "Fabric style not found")
			}
			return err
		}
	}

	order, err := h.pendingOwnedOrder(c, auth, "modifiable")
	if err != nil {
		return err
	}

	if req.StyleID != nil {
		order.StyleID = uuid.MustParse(*req.StyleID)
	}
	if req.Color != nil {
		order.Color = *req.Color
	}
	if req.SleeveLength != nil {
		order.SleeveLength = *req.SleeveLength
	}
	if req.FabricType != nil {
		order.FabricType = *req.FabricType
	}
	if req.Comments != nil {
		order.Comments = *req.Comments
	}

	if err := h.db.Save(order).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "order": order})
}

// GetOrderStatus reports the status of any order to an authenticated
// caller.
func (h *OrderHandler) GetOrderStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("orderId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid order id")
	}

	var order models.Order
	if err := h.db.Preload("Style").First(&order, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "Order not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "status": order.Status, "order": order})
}

// GetOrderDetails returns the full order with its user and style.
func (h *OrderHandler) GetOrderDetails(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("orderId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid order id")
	}

	var order models.Order
	if err := h.db.Preload("User").Preload("Style").First(&order, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "Order not found")
		}
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Order details fetched successfully",
		"order":   order,
	})
}

// GetAllOrders lists orders sorted by most recently modified.
func (h *OrderHandler) GetAllOrders(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)

	var total int64
	if err := h.db.Model(&models.Order{}).Count(&total).Error; err != nil {
		return err
	}

	var orders []models.Order
	if err := h.db.Preload("User").Preload("Style").
		Order("updated_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"orders":  orders,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// DeleteOrder removes a pending order owned by the caller.
func (h *OrderHandler) DeleteOrder(c *fiber.Ctx) error {
	auth, ok := middleware.CurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	order, err := h.pendingOwnedOrder(c, auth, "deletable")
	if err != nil {
		return err
	}

	if err := h.db.Delete(order).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "Order deleted successfully"})
}
