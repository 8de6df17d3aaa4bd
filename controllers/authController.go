package controllers

import (
	"net/mail"
	"strings"
	"time"

	"gstbilling-backend/database"
	"gstbilling-backend/middlewares"
	"gstbilling-backend/models"

	"github.com/gofiber/fiber/v2"
)

func Register(c *fiber.Ctx) error {
	var data map[string]string
	if err := c.BodyParser(&data); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	email := strings.ToLower(strings.TrimSpace(data["email"]))
	username := strings.TrimSpace(data["username"])
	name := strings.TrimSpace(data["name"])

	if _, err := mail.ParseAddress(email); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid email format")
	}
	if username == "" || name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Name and username are required")
	}
	if len(data["password"]) < 6 {
		return fiber.NewError(fiber.StatusBadRequest, "Password must be at least 6 characters")
	}
	if data["password"] != data["password_confirm"] {
		return fiber.NewError(fiber.StatusBadRequest, "Passwords do not match")
	}

	var existing models.User
	database.DB.Where("email = ? OR username = ?", email, username).First(&existing)
	if existing.Id != "" {
		return fiber.NewError(fiber.StatusBadRequest, "Email or username already exists")
	}

	// First registered user becomes admin, everyone after is staff.
	var count int64
	database.DB.Model(&models.User{}).Count(&count)
	role := models.RoleStaff
	if count == 0 {
		role = models.RoleAdmin
	}

	user := models.User{
		Name:     name,
		Username: username,
		Email:    email,
		Role:     role,
	}
	user.SetPassword(data["password"])

	if err := database.DB.Create(&user).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Could not create user")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Registration successful",
		"data": fiber.Map{
			"id":       user.Id,
			"name":     user.Name,
			"username": user.Username,
			"email":    user.Email,
			"role":     user.Role,
		},
	})
}

func Login(c *fiber.Ctx) error {
	var data map[string]string
	if err := c.BodyParser(&data); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	login := strings.TrimSpace(data["username"])
	if login == "" {
		login = strings.ToLower(strings.TrimSpace(data["email"]))
	}
	if login == "" || data["password"] == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Username and password are required")
	}

	var user models.User
	database.DB.Where("username = ? OR email = ?", login, login).First(&user)
	if user.Id == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid credentials")
	}
	if err := user.ComparePassword(data["password"]); err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid credentials")
	}

	token, err := middlewares.GenerateJWT(user.Id, user.Role)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not issue token")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user": fiber.Map{
			"id":       user.Id,
			"name":     user.Name,
			"username": user.Username,
			"email":    user.Email,
			"role":     user.Role,
		},
	})
}

func Logout(c *fiber.Ctx) error {
	cookie := fiber.Cookie{
		Name:     "jwt",
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	}
	c.Cookie(&cookie)
	return c.JSON(fiber.Map{"success": true, "message": "Logged out"})
}

// Me returns the authenticated user's profile.
func Me(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "User not found")
	}
	return c.JSON(fiber.Map{"success": true, "data": user})
}
