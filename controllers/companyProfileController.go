package controllers

import (
	"strings"

	"gstbilling-backend/database"
	"gstbilling-backend/middlewares"
	"gstbilling-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CompanyProfileInput struct {
	CompanyName string `json:"companyName" validate:"required"`
	Tagline     string `json:"tagline"`
	Logo        string `json:"logo"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone"`
	Website     string `json:"website"`
	GSTNumber   string `json:"gstNumber"`
	PANNumber   string `json:"panNumber"`
	CINNumber   string `json:"cinNumber"`

	Address         models.Address         `json:"address"`
	BankDetails     models.BankDetails     `json:"bankDetails"`
	Branding        models.Branding        `json:"branding"`
	InvoiceSettings models.InvoiceSettings `json:"invoiceSettings"`
	TaxSettings     models.TaxSettings     `json:"taxSettings"`
}

// GetCompanyProfile returns the single active profile.
func GetCompanyProfile(c *fiber.Ctx) error {
	db, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	var profile models.CompanyProfile
	if err := db.Where("is_active = ?", true).First(&profile).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Company profile not configured. Please setup company profile first.")
	}
	return c.JSON(fiber.Map{"success": true, "data": profile})
}

// UpsertCompanyProfile creates the profile on first call and replaces the
// active one afterwards. Only a single profile is active at a time.
func UpsertCompanyProfile(c *fiber.Ctx) error {
	var input CompanyProfileInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	db, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	fill := func(profile *models.CompanyProfile) {
		profile.CompanyName = strings.TrimSpace(input.CompanyName)
		profile.Tagline = strings.TrimSpace(input.Tagline)
		profile.Logo = strings.TrimSpace(input.Logo)
		profile.Email = strings.TrimSpace(input.Email)
		profile.Phone = strings.TrimSpace(input.Phone)
		profile.Website = strings.TrimSpace(input.Website)
		profile.GSTNumber = strings.ToUpper(strings.TrimSpace(input.GSTNumber))
		profile.PANNumber = strings.ToUpper(strings.TrimSpace(input.PANNumber))
		profile.CINNumber = strings.ToUpper(strings.TrimSpace(input.CINNumber))
		profile.Address = datatypes.NewJSONType(input.Address)
		profile.BankDetails = datatypes.NewJSONType(input.BankDetails)
		profile.Branding = datatypes.NewJSONType(input.Branding)
		profile.InvoiceSettings = datatypes.NewJSONType(input.InvoiceSettings)
		profile.TaxSettings = datatypes.NewJSONType(input.TaxSettings)
		profile.IsActive = true
	}

	var profile models.CompanyProfile
	err = db.Where("is_active = ?", true).First(&profile).Error
	switch {
	case err == nil:
		fill(&profile)
		if e := db.Save(&profile).Error; e != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Could not update company profile")
		}
		return c.JSON(fiber.Map{"success": true, "message": "Company profile updated", "data": profile})
	case err == gorm.ErrRecordNotFound:
		fill(&profile)
		if e := db.Create(&profile).Error; e != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Could not create company profile")
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": "Company profile created", "data": profile})
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "Could not load company profile")
	}
}
