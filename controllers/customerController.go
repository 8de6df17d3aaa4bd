package controllers

import (
	"fmt"
	"strings"

	"gstbilling-backend/database"
	"gstbilling-backend/middlewares"
	"gstbilling-backend/models"
	"gstbilling-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CustomerInput struct {
	CustomerName   string  `json:"customerName" validate:"required"`
	CompanyName    string  `json:"companyName"`
	Email          string  `json:"email" validate:"omitempty,email"`
	Mobile         string  `json:"mobile" validate:"required"`
	AlternatePhone string  `json:"alternatePhone"`
	GSTNumber      string  `json:"gstNumber"`
	PANNumber      string  `json:"panNumber"`
	CustomerType   string  `json:"customerType"`
	CreditLimit    float64 `json:"creditLimit"`
	CreditDays     int     `json:"creditDays"`
	Notes          string  `json:"notes"`

	BillingAddress    models.Address              `json:"billingAddress"`
	ShippingAddress   models.ShippingAddress      `json:"shippingAddress"`
	ShippingAddresses []models.AltShippingAddress `json:"shippingAddresses"`
}

type CustomerUpdateInput struct {
	CustomerName   *string  `json:"customer_name"`
	CompanyName    *string  `json:"company_name"`
	Email          *string  `json:"email"`
	Mobile         *string  `json:"mobile"`
	AlternatePhone *string  `json:"alternate_phone"`
	GSTNumber      *string  `json:"gst_number"`
	PANNumber      *string  `json:"pan_number"`
	CustomerType   *string  `json:"customer_type"`
	CreditLimit    *float64 `json:"credit_limit"`
	CreditDays     *int     `json:"credit_days"`
	Notes          *string  `json:"notes"`

	BillingAddress    *models.Address              `json:"billing_address"`
	ShippingAddress   *models.ShippingAddress      `json:"shipping_address"`
	ShippingAddresses *[]models.AltShippingAddress `json:"shipping_addresses"`
}

// nextCustomerCode issues CUST%05d based on the current row count.
func nextCustomerCode(db *gorm.DB) string {
	var count int64
	db.Model(&models.Customer{}).Count(&count)
	return fmt.Sprintf("CUST%05d", count+1)
}

func CreateCustomer(c *fiber.Ctx) error {
	var input CustomerInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	utils.NormalizeDTO(&input)

	db, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}
	actor, _ := c.Locals("userID").(string)

	customer := models.Customer{
		CustomerCode:      nextCustomerCode(db),
		CustomerName:      input.CustomerName,
		CompanyName:       input.CompanyName,
		Email:             input.Email,
		Mobile:            input.Mobile,
		AlternatePhone:    input.AlternatePhone,
		GSTNumber:         strings.ToUpper(input.GSTNumber),
		PANNumber:         strings.ToUpper(input.PANNumber),
		CustomerType:      input.CustomerType,
		CreditLimit:       input.CreditLimit,
		CreditDays:        input.CreditDays,
		Notes:             input.Notes,
		BillingAddress:    datatypes.NewJSONType(input.BillingAddress),
		ShippingAddress:   datatypes.NewJSONType(input.ShippingAddress),
		ShippingAddresses: datatypes.NewJSONType(input.ShippingAddresses),
		Active:            true,
		CreatedByID:       actor,
	}
	if customer.CustomerType == "" {
		customer.CustomerType = "Regular"
	}

	if err := db.Create(&customer).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Could not create customer")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Customer created",
		"data":    customer,
	})
}

func GetCustomers(c *fiber.Ctx) error {
	db, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	query := db.Model(&models.Customer{}).Where("active = ?", true)
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		pattern := "%" + search + "%"
		query = query.Where(
			"customer_name ILIKE ? OR company_name ILIKE ? OR customer_code ILIKE ? OR mobile ILIKE ? OR email ILIKE ?",
			pattern, pattern, pattern, pattern, pattern)
	}
	if t := strings.TrimSpace(c.Query("type")); t != "" {
		query = query.Where("customer_type = ?", t)
	}
	if c.Query("outstanding") == "true" {
		query = query.Where("outstanding_balance > 0")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not list customers")
	}

	page := utils.ParseIntDefault(c.Query("page"), 1)
	if page < 1 {
		page = 1
	}
	limit := utils.ParseIntDefault(c.Query("limit"), 50)
	if limit < 1 || limit > 200 {
		limit = 50
	}

	var customers []models.Customer
	if err := query.Order("customer_name asc").Offset((page - 1) * limit).Limit(limit).Find(&customers).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not list customers")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    customers,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"pages": (total + int64(limit) - 1) / int64(limit),
		},
	})
}

func GetCustomer(c *fiber.Ctx) error {
	db, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	var customer models.Customer
	if err := db.First(&customer, "id = ? AND active = ?", c.Params("id"), true).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Customer not found")
	}
	return c.JSON(fiber.Map{"success": true, "data": customer})
}

func UpdateCustomer(c *fiber.Ctx) error {
	var input CustomerUpdateInput
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	utils.NormalizePtrDTO(&input)

	db, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	var customer models.Customer
	if err := db.First(&customer, "id = ? AND active = ?", c.Params("id"), true).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Customer not found")
	}

	updates := utils.UpdatesFromPtrDTO(&input, nil)
	if gst, ok := updates["gst_number"].(string); ok {
		updates["gst_number"] = strings.ToUpper(gst)
	}
	if pan, ok := updates["pan_number"].(string); ok {
		updates["pan_number"] = strings.ToUpper(pan)
	}
	if input.BillingAddress != nil {
		updates["billing_address"] = datatypes.NewJSONType(*input.BillingAddress)
	}
	if input.ShippingAddress != nil {
		updates["shipping_address"] = datatypes.NewJSONType(*input.ShippingAddress)
	}
	if input.ShippingAddresses != nil {
		updates["shipping_addresses"] = datatypes.NewJSONType(*input.ShippingAddresses)
	}
	if len(updates) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Nothing to update")
	}

	if err := db.Model(&customer).Updates(updates).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Could not update customer")
	}

	return c.JSON(fiber.Map{"success": true, "message": "Customer updated", "data": customer})
}

func DeleteCustomer(c *fiber.Ctx) error {
	db, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	var customer models.Customer
	if err := db.First(&customer, "id = ? AND active = ?", c.Params("id"), true).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Customer not found")
	}
	if customer.OutstandingBalance > 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Customer has outstanding balance")
	}

	// Soft delete: historical invoices keep their snapshot and FK.
	if err := db.Model(&customer).Update("active", false).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not delete customer")
	}
	return c.JSON(fiber.Map{"success": true, "message": "Customer deleted"})
}
