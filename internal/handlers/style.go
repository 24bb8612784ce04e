package handlers

import (
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/ario/internal/middleware"
	"github.com/example/ario/internal/models"
	"github.com/example/ario/internal/services"
)

// StyleHandler manages the garment design catalog.
type StyleHandler struct {
	db    *gorm.DB
	blobs services.BlobStore
}

// NewStyleHandler constructs a StyleHandler.
func NewStyleHandler(db *gorm.DB, blobs services.BlobStore) *StyleHandler {
	return &StyleHandler{db: db, blobs: blobs}
}

// uploadImage reads the multipart file and stores it in the blob store,
// returning the public URL. The record is only written after this confirms.
func (h *StyleHandler) uploadImage(c *fiber.Ctx) (string, error) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "No file uploaded")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fiber.NewError(fiber.StatusInternalServerError, "failed to read uploaded file")
	}
	defer file.Close()

	filename := uuid.New().String() + filepath.Ext(fileHeader.Filename)
	imageURL, err := h.blobs.Upload(c.Context(), filename, file)
	if err != nil {
		return "", fiber.NewError(fiber.StatusInternalServerError, "failed to upload image")
	}

	return imageURL, nil
}

// CreateStyle adds a new style, public or custom. The image goes to the
// blob store first; the record is persisted only after the upload confirms.
func (h *StyleHandler) CreateStyle(c *fiber.Ctx) error {
	auth, ok := middleware.CurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	title := c.FormValue("title")
	description := c.FormValue("description")
	isCustom := c.FormValue("is_custom") == "true"

	if title == "" || description == "" {
		return fiber.NewError(fiber.StatusBadRequest, "title and description are required")
	}

	imageURL, err := h.uploadImage(c)
	if err != nil {
		return err
	}

	style := models.Style{
		Title:       title,
		Description: description,
		ImageURL:    imageURL,
		IsCustom:    isCustom,
	}
	if isCustom {
		userID := auth.ID
		style.UserID = &userID
	}

	if err := h.db.Create(&style).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Style added successfully",
		"style":   style,
	})
}

// ListStyles returns all public styles plus the caller's custom ones.
func (h *StyleHandler) ListStyles(c *fiber.Ctx) error {
	auth, ok := middleware.CurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var styles []models.Style
	if err := h.db.
		Where("is_custom = ?", false).
		Or("is_custom = ? AND user_id = ?", true, auth.ID).
		Find(&styles).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "styles": styles})
}

// ownedCustomStyle loads a style and checks the caller owns it.
func (h *StyleHandler) ownedCustomStyle(c *fiber.Ctx, auth middleware.AuthUser) (*models.Style, error) {
	id, err := uuid.Parse(c.Params("styleId"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid style id")
	}

	var style models.Style
	if err := h.db.First(&style, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fiber.NewError(fiber.StatusForbidden, "Not authorized to modify this style")
		}
		return nil, err
	}

	if !style.IsCustom || style.UserID == nil || *style.UserID != auth.ID {
		return nil, fiber.NewError(fiber.StatusForbidden, "Not authorized to modify this style")
	}

	return &style, nil
}

// UpdateStyle edits a caller-owned custom style, optionally replacing the
// image.
func (h *StyleHandler) UpdateStyle(c *fiber.Ctx) error {
	auth, ok := middleware.CurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	style, err := h.ownedCustomStyle(c, auth)
	if err != nil {
		return err
	}

	if title := c.FormValue("title"); title != "" {
		style.Title = title
	}
	if description := c.FormValue("description"); description != "" {
		style.Description = description
	}

	if _, err := c.FormFile("image"); err == nil {
		imageURL, err := h.uploadImage(c)
		if err != nil {
			return err
		}
		style.ImageURL = imageURL
	}

	if err := h.db.Save(style).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Style updated successfully",
		"style":   style,
	})
}

// DeleteStyle removes a caller-owned custom style, releasing the stored
// image before the record goes away.
func (h *StyleHandler) DeleteStyle(c *fiber.Ctx) error {
	auth, ok := middleware.CurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	style, err := h.ownedCustomStyle(c, auth)
	if err != nil {
		return err
	}

	if style.ImageURL != "" {
		publicID := services.PublicIDFromURL(style.ImageURL)
		if err := h.blobs.Destroy(c.Context(), publicID); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to delete image")
		}
	}

	if err := h.db.Delete(style).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "Style deleted successfully"})
}
