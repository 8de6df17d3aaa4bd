package controllers

import (
	"fmt"
	"strings"

	"gstbilling-backend/database"
	"gstbilling-backend/models"
	"gstbilling-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ProductInput struct {
	Code          string   `json:"code"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	HSNCode       string   `json:"hsnCode"`
	Unit          string   `json:"unit"`
	Price         float64  `json:"price"`
	GSTPercent    float64  `json:"gstPercent"`
	CurrentStock  *float64 `json:"currentStock"`
	MinStockAlert *float64 `json:"minStockAlert"`
}

type ProductUpdateInput struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	HSNCode       *string  `json:"hsn_code"`
	Unit          *string  `json:"unit"`
	Price         *float64 `json:"price"`
	GSTPercent    *float64 `json:"gst_percent"`
	MinStockAlert *float64 `json:"min_stock_alert"`
}

type StockAdjustmentInput struct {
	Quantity float64 `json:"quantity"` // signed delta
	Remarks  string  `json:"remarks"`
}

// CreateProducts accepts a single product or a batch.
func CreateProducts(c *fiber.Ctx) error {
	var inputs []ProductInput
	if err := c.BodyParser(&inputs); err != nil {
		var single ProductInput
		if err2 := c.BodyParser(&single); err2 != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		inputs = []ProductInput{single}
	}
	if len(inputs) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "At least one product is required")
	}

	db, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}
	created := make([]models.Product, 0, len(inputs))

	for i := range inputs {
		in := &inputs[i]
		utils.NormalizeDTO(in)
		if in.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Product name is required at index %d", i))
		}
		if in.Price < 0 {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Invalid price at index %d", i))
		}
		if in.CurrentStock != nil && *in.CurrentStock < 0 {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Invalid stock at index %d", i))
		}

		product := models.Product{
			Code:          in.Code,
			Name:          in.Name,
			Description:   in.Description,
			HSNCode:       in.HSNCode,
			Unit:          in.Unit,
			Price:         in.Price,
			GSTPercent:    in.GSTPercent,
			CurrentStock:  in.CurrentStock,
			MinStockAlert: in.MinStockAlert,
			Active:        true,
		}
		if product.Code == "" {
			product.Code = nextProductCode(db)
		}
		if err := db.Create(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Could not create product at index %d", i))
		}
		created = append(created, product)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Products created",
		"data":    created,
	})
}

// nextProductCode issues ITEM%05d based on the current row count. Uniqueness
// is still enforced by the index; collisions surface as create errors.
func nextProductCode(db *gorm.DB) string {
	var count int64
	db.Model(&models.Product{}).Count(&count)
	return fmt.Sprintf("ITEM%05d", count+1)
}

func GetProducts(c *fiber.Ctx) error {
	db, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	query := db.Model(&models.Product{}).Where("active = ?", true)
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ? OR hsn_code ILIKE ?", pattern, pattern, pattern)
	}
	if c.Query("lowStock") == "true" {
		query = query.Where("current_stock IS NOT NULL AND min_stock_alert IS NOT NULL AND current_stock <= min_stock_alert")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not list products")
	}

	page := utils.ParseIntDefault(c.Query("page"), 1)
	if page < 1 {
		page = 1
	}
	limit := utils.ParseIntDefault(c.Query("limit"), 50)
	if limit < 1 || limit > 200 {
		limit = 50
	}

	var products []models.Product
	if err := query.Order("name asc").Offset((page - 1) * limit).Limit(limit).Find(&products).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not list products")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    products,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"pages": (total + int64(limit) - 1) / int64(limit),
		},
	})
}

func GetProduct(c *fiber.Ctx) error {
	db, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	var product models.Product
	if err := db.First(&product, "id = ? AND active = ?", c.Params("id"), true).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Product not found")
	}
	return c.JSON(fiber.Map{"success": true, "data": product})
}

func UpdateProduct(c *fiber.Ctx) error {
	var input ProductUpdateInput
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	utils.NormalizePtrDTO(&input)

	if input.Price != nil && *input.Price < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid price")
	}

	db, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	var product models.Product
	if err := db.First(&product, "id = ? AND active = ?", c.Params("id"), true).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Product not found")
	}

	updates := utils.UpdatesFromPtrDTO(&input, nil)
	if len(updates) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Nothing to update")
	}
	if err := db.Model(&product).Updates(updates).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Could not update product")
	}

	return c.JSON(fiber.Map{"success": true, "message": "Product updated", "data": product})
}

func DeleteProduct(c *fiber.Ctx) error {
	db, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	var product models.Product
	if err := db.First(&product, "id = ? AND active = ?", c.Params("id"), true).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Product not found")
	}

	// Soft delete: invoices keep referencing the row through item snapshots.
	if err := db.Model(&product).Update("active", false).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not delete product")
	}
	return c.JSON(fiber.Map{"success": true, "message": "Product deleted"})
}

// AdjustStock applies a signed manual correction to a tracked product and
// records the movement in the stock ledger.
func AdjustStock(c *fiber.Ctx) error {
	var input StockAdjustmentInput
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if input.Quantity == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Adjustment quantity cannot be zero")
	}

	db, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	var product models.Product
	if err := db.First(&product, "id = ? AND active = ?", c.Params("id"), true).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Product not found")
	}

	level := product.Stock()
	if !level.Tracked {
		return fiber.NewError(fiber.StatusBadRequest, "Stock is not tracked for this product")
	}
	if level.Quantity+input.Quantity < 0 {
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("Adjustment would make stock negative. Available: %g", level.Quantity))
	}

	actor, _ := c.Locals("userID").(string)
	entry, err := models.RecordAdjustment(db, &product, input.Quantity, strings.TrimSpace(input.Remarks), actor)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not adjust stock")
	}

	return c.JSON(fiber.Map{"success": true, "message": "Stock adjusted", "data": entry})
}

// GetStockLedger lists a product's stock movements, newest first.
func GetStockLedger(c *fiber.Ctx) error {
	db, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	var product models.Product
	if err := db.First(&product, "id = ?", c.Params("id")).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Product not found")
	}

	var entries []models.StockLedgerEntry
	if err := db.Where("product_id = ?", product.Id).
		Order("transaction_date desc, id desc").
		Limit(200).
		Find(&entries).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not load stock ledger")
	}

	return c.JSON(fiber.Map{"success": true, "data": entries})
}
