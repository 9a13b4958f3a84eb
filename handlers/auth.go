package handlers

import (
	"log"
	"net/http"
	"time"

	"RoomLink/models"
	"RoomLink/store"
	"RoomLink/utils"

	"github.com/labstack/echo/v4"
)

type AuthController struct {
	users store.UserStore
	otps  store.OTPStore

	// sendOTPEmail is swappable in tests.
	sendOTPEmail func(to, otp string) error
}

func NewAuthController(users store.UserStore, otps store.OTPStore) *AuthController {
	return &AuthController{
		users:        users,
		otps:         otps,
		sendOTPEmail: utils.SendOTPEmail,
	}
}

func (ac *AuthController) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": []string{"Invalid request body"}})
	}

	var errs []string
	if !utils.ValidEmail(req.Email) {
		errs = append(errs, "A valid email is required")
	}
	if len(req.Password) < 6 {
		errs = append(errs, "Password must be at least 6 characters")
	}
	if req.Name == "" {
		errs = append(errs, "Name is required")
	}
	if !models.IsValidUserType(req.UserType) {
		errs = append(errs, "Invalid userType")
	}
	if req.Phone != "" && !utils.ValidPhone(req.Phone) {
		errs = append(errs, "Invalid phone number")
	}
	if len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		log.Printf("hash password: %v", err)
		return c.String(http.StatusInternalServerError, "Internal Server Error")
	}

	user := models.User{
		Email:    req.Email,
		Password: hashedPassword,
		Name:     req.Name,
		UserType: req.UserType,
		Phone:    req.Phone,
		IsActive: true,
	}

	if err := ac.users.Create(c.Request().Context(), &user); err != nil {
		if err == store.ErrDuplicateEmail {
			return c.JSON(http.StatusBadRequest, echo.Map{"errors": []string{"Email already in use"}})
		}
		log.Printf("create user: %v", err)
		return c.String(http.StatusInternalServerError, "Internal Server Error")
	}

	token, err := utils.GenerateJWT(user.ID, user.Email, user.UserType)
	if err != nil {
		log.Printf("generate token: %v", err)
		return c.String(http.StatusInternalServerError, "Internal Server Error")
	}

	user.Redact(false)
	return c.JSON(http.StatusCreated, models.LoginResponse{Token: token, User: user})
}

func (ac *AuthController) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": []string{"Invalid request body"}})
	}

	user, err := ac.users.FindByEmail(c.Request().Context(), req.Email)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid email or password"})
	}

	if !user.IsActive {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Account is deactivated"})
	}

	if err := utils.CheckPassword(user.Password, req.Password); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid email or password"})
	}

	token, err := utils.GenerateJWT(user.ID, user.Email, user.UserType)
	if err != nil {
		log.Printf("generate token: %v", err)
		return c.String(http.StatusInternalServerError, "Internal Server Error")
	}

	user.Redact(false)
	return c.JSON(http.StatusOK, models.LoginResponse{Token: token, User: *user})
}

// ForgotPassword issues an OTP for the account and mails it. The record is
// persisted first; if delivery fails the record is left to expire via TTL
// rather than rolled back, since the next request simply issues a fresh code.
func (ac *AuthController) ForgotPassword(c echo.Context) error {
	var req models.ForgotPasswordRequest
	if err := c.Bind(&req); err != nil || !utils.ValidEmail(req.Email) {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": []string{"A valid email is required"}})
	}

	ctx := c.Request().Context()
	if _, err := ac.users.FindByEmail(ctx, req.Email); err != nil {
		if err == store.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"msg": "User not found"})
		}
		log.Printf("find user: %v", err)
		return c.String(http.StatusInternalServerError, "Internal Server Error")
	}

	code := utils.GenerateOTP()
	record := models.OTP{
		Email:     req.Email,
		Code:      code,
		CreatedAt: time.Now(),
	}
	if err := ac.otps.Create(ctx, &record); err != nil {
		log.Printf("store otp: %v", err)
		return c.String(http.StatusInternalServerError, "Internal Server Error")
	}

	if err := ac.sendOTPEmail(req.Email, code); err != nil {
		log.Printf("send otp email: %v", err)
		return c.String(http.StatusInternalServerError, "Internal Server Error")
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "A reset code has been sent to your email"})
}

func (ac *AuthController) ResetPassword(c echo.Context) error {
	var req models.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": []string{"Invalid request body"}})
	}

	var errs []string
	if !utils.ValidEmail(req.Email) {
		errs = append(errs, "A valid email is required")
	}
	if !utils.ValidOTP(req.OTP) {
		errs = append(errs, "Invalid reset code format")
	}
	if len(req.NewPassword) < 6 {
		errs = append(errs, "Password must be at least 6 characters")
	}
	if len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
	}

	ctx := c.Request().Context()
	record, err := ac.otps.FindLatestByEmail(ctx, req.Email)
	if err != nil {
		if err == store.ErrNotFound {
			return c.JSON(http.StatusBadRequest, echo.Map{"errors": []string{"Invalid or expired reset code"}})
		}
		log.Printf("find otp: %v", err)
		return c.String(http.StatusInternalServerError, "Internal Server Error")
	}

	// TTL deletion lags, so re-check the window by timestamp.
	if record.Code != req.OTP || record.Expired(time.Now()) {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": []string{"Invalid or expired reset code"}})
	}

	user, err := ac.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if err == store.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"msg": "User not found"})
		}
		log.Printf("find user: %v", err)
		return c.String(http.StatusInternalServerError, "Internal Server Error")
	}

	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		log.Printf("hash password: %v", err)
		return c.String(http.StatusInternalServerError, "Internal Server Error")
	}

	user.Password = hashedPassword
	if err := ac.users.Update(ctx, user); err != nil {
		log.Printf("update password: %v", err)
		return c.String(http.StatusInternalServerError, "Internal Server Error")
	}

	if err := ac.otps.DeleteForEmail(ctx, req.Email); err != nil {
		log.Printf("delete otps: %v", err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Password has been reset"})
}
