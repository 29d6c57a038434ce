package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gogomarket/gogomarket-BE/internal/db"
	"github.com/gogomarket/gogomarket-BE/internal/mailer"
	"github.com/gogomarket/gogomarket-BE/internal/util"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/idtoken"
)

type createUserRequest struct {
	FullName    string  `json:"full_name" binding:"required"`
	Email       string  `json:"email" binding:"required,email"`
	Password    string  `json:"password" binding:"required,min=8"`
	PhoneNumber *string `json:"phone_number"`
	Role        string  `json:"role" binding:"required,oneof=buyer seller courier"`
}

type createUserResponse struct {
	User db.User `json:"user"`
}

//	@Summary	Register a new account
//	@Tags		users
//	@Accept		json
//	@Produce	json
//	@Param		createUserRequest	body		createUserRequest	true	"Account details"
//	@Success	201					{object}	createUserResponse
//	@Failure	400					{object}	gin.H
//	@Failure	409					{object}	gin.H	"Email already registered"
//	@Router		/auth/register [post]
func (server *Server) createUser(ctx *gin.Context) {
	req := new(createUserRequest)

	if err := ctx.ShouldBindJSON(req); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	hashedPassword, err := util.HashPassword(req.Password)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	arg := db.CreateUserParams{
		ID:             uuid.NewString(),
		FullName:       req.FullName,
		Email:          req.Email,
		HashedPassword: &hashedPassword,
		PhoneNumber:    req.PhoneNumber,
		Role:           db.UserRole(req.Role),
	}

	user, err := server.dbStore.CreateUser(ctx, arg)
	if err != nil {
		errCode, constraintName := db.ErrorDescription(err)
		if errCode == db.UniqueViolationCode && constraintName == db.UniqueEmailConstraint {
			err = fmt.Errorf("email %s already exists", req.Email)
			ctx.JSON(http.StatusConflict, errorResponse(err))
			return
		}

		log.Err(err).Msg("failed to create user")
		ctx.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	ctx.JSON(http.StatusCreated, createUserResponse{User: user})
}

type loginUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginUserResponse struct {
	User                 db.User   `json:"user"`
	AccessToken          string    `json:"access_token"`
	AccessTokenExpiresAt time.Time `json:"access_token_expires_at"`
}

//	@Summary	Log in with email and password
//	@Tags		users
//	@Accept		json
//	@Produce	json
//	@Param		loginUserRequest	body		loginUserRequest	true	"Credentials"
//	@Success	200					{object}	loginUserResponse
//	@Failure	401					{object}	gin.H
//	@Router		/auth/login [post]
func (server *Server) loginUser(ctx *gin.Context) {
	req := new(loginUserRequest)

	if err := ctx.ShouldBindJSON(req); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	user, err := server.dbStore.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			err = errors.New("email not found")
			ctx.JSON(http.StatusNotFound, errorResponse(err))
			return
		}

		log.Err(err).Msg("failed to find user")
		ctx.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	if user.HashedPassword == nil {
		err = errors.New("account has no password, use google login")
		ctx.JSON(http.StatusUnauthorized, errorResponse(err))
		return
	}

	if err = util.CheckPassword(req.Password, *user.HashedPassword); err != nil {
		err = errors.New("incorrect password")
		ctx.JSON(http.StatusUnauthorized, errorResponse(err))
		return
	}

	accessToken, accessPayload, err := server.tokenMaker.CreateToken(user.ID, string(user.Role), server.config.AccessTokenDuration)
	if err != nil {
		log.Err(err).Msg("failed to create access token")
		ctx.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	resp := loginUserResponse{
		AccessToken:          accessToken,
		AccessTokenExpiresAt: accessPayload.ExpiresAt.Time,
		User:                 user,
	}
	ctx.JSON(http.StatusOK, resp)
}

type loginUserWithGoogleRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

func (server *Server) loginUserWithGoogle(ctx *gin.Context) {
	req := new(loginUserWithGoogleRequest)

	if err := ctx.ShouldBindJSON(req); err != nil {
		log.Err(err).Msg("failed to bind json")
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	payload, err := server.googleIDTokenValidator.Validate(ctx, req.IDToken, server.config.GoogleClientID)
	if err != nil {
		log.Err(err).Msg("failed to validate google id token")
		ctx.JSON(http.StatusUnauthorized, errorResponse(err))
		return
	}

	user, err := server.getOrCreateGoogleUser(ctx, payload)
	if err != nil {
		log.Err(err).Msg("failed to get or create google user")
		ctx.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	accessToken, accessPayload, err := server.tokenMaker.CreateToken(user.ID, string(user.Role), server.config.AccessTokenDuration)
	if err != nil {
		log.Err(err).Msg("failed to create access token")
		ctx.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	resp := loginUserResponse{
		AccessToken:          accessToken,
		AccessTokenExpiresAt: accessPayload.ExpiresAt.Time,
		User:                 *user,
	}
	ctx.JSON(http.StatusOK, resp)
}

func (server *Server) getOrCreateGoogleUser(ctx *gin.Context, payload *idtoken.Payload) (*db.User, error) {
	email := payload.Claims["email"].(string)
	user, err := server.dbStore.GetUserByEmail(ctx, email)
	if err == nil {
		return &user, nil
	}

	if !errors.Is(err, db.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	newUser, err := server.dbStore.CreateUser(ctx, db.CreateUserParams{
		ID:              uuid.NewString(),
		GoogleAccountID: &payload.Subject,
		FullName:        payload.Claims["name"].(string),
		Email:           email,
		Role:            db.UserRoleBuyer,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &newUser, nil
}

//	@Summary	Get the authenticated user's profile
//	@Tags		users
//	@Produce	json
//	@Success	200	{object}	db.User
//	@Security	accessToken
//	@Router		/users/me [get]
func (server *Server) getCurrentUser(ctx *gin.Context) {
	authPayload := getAuthPayload(ctx)

	user, err := server.dbStore.GetUserByID(ctx, authPayload.Subject)
	if err != nil {
		server.handleDomainError(ctx, "", err)
		return
	}

	ctx.JSON(http.StatusOK, user)
}

type sendEmailOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (server *Server) sendEmailOTP(ctx *gin.Context) {
	req := new(sendEmailOTPRequest)

	if err := ctx.ShouldBindJSON(req); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	_, createdAt, expiresAt, err := server.mailService.SendOTP(mailer.EmailHeader{
		Subject: "GoGoMarket email verification",
		To:      []string{req.Email},
	})
	if err != nil {
		log.Err(err).Msg("failed to send email OTP")
		ctx.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"created_at": createdAt,
		"expires_at": expiresAt,
	})
}

type verifyEmailRequest struct {
	Code string `json:"code" binding:"required,len=6"`
}

func (server *Server) verifyEmail(ctx *gin.Context) {
	authPayload := getAuthPayload(ctx)

	req := new(verifyEmailRequest)
	if err := ctx.ShouldBindJSON(req); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	user, err := server.dbStore.GetUserByID(ctx, authPayload.Subject)
	if err != nil {
		server.handleDomainError(ctx, "", err)
		return
	}

	if _, err = server.mailService.VerifyOTP(ctx, user.Email, req.Code); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, errorResponse(err))
		return
	}

	if err = server.dbStore.MarkUserEmailVerified(ctx, user.ID); err != nil {
		ctx.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "email verified"})
}
