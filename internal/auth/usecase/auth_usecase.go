package usecase

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	authdomain "corretora-backend/internal/auth/domain"
	authdto "corretora-backend/internal/auth/dto"
	"corretora-backend/internal/auth/repository"
	"corretora-backend/pkg/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"

	defaultAdminUsername = "admin"
)

type tokenClaims struct {
	Type string `json:"type"`
	jwt.RegisteredClaims
}

// authUsecase implements AuthUsecase interface
type authUsecase struct {
	userRepo repository.UserRepository
	config   *config.Config
	log      *zap.Logger
}

// NewAuthUsecase creates a new instance of authUsecase
func NewAuthUsecase(userRepo repository.UserRepository, cfg *config.Config) AuthUsecase {
	return &authUsecase{
		userRepo: userRepo,
		config:   cfg,
		log:      zap.L().Named("auth"),
	}
}

func (u *authUsecase) Login(req *authdto.LoginRequest) (*authdto.TokenResponse, error) {
	user, err := u.userRepo.FindByUsername(strings.TrimSpace(req.Username))
	if err != nil {
		return nil, err
	}

	if user == nil || !repository.CheckPasswordHash(req.Password, user.Password) {
		return nil, authdomain.ErrInvalidCredentials
	}

	if !user.Active {
		return nil, authdomain.ErrUserInactive
	}

	if err := u.userRepo.UpdateLastLogin(user.ID); err != nil {
		u.log.Warn("failed to update last login", zap.Uint("user_id", user.ID), zap.Error(err))
	} else {
		now := time.Now()
		user.LastLogin = &now
	}

	u.log.Info("user logged in", zap.String("username", user.Username))
	return u.generateTokens(user)
}

func (u *authUsecase) RefreshToken(refreshToken string) (*authdto.TokenResponse, error) {
	userID, err := u.parseToken(refreshToken, tokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	storedToken, err := u.userRepo.FindRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	if storedToken == nil || storedToken.ExpiresAt.Before(time.Now()) {
		return nil, authdomain.ErrInvalidToken
	}

	user, err := u.activeUser(userID)
	if err != nil {
		return nil, err
	}

	if err := u.userRepo.DeleteRefreshToken(refreshToken); err != nil {
		return nil, err
	}
	return u.generateTokens(user)
}

func (u *authUsecase) Logout(refreshToken string) error {
	return u.userRepo.DeleteRefreshToken(refreshToken)
}

func (u *authUsecase) ValidateToken(tokenString string) (*authdomain.User, error) {
	userID, err := u.parseToken(tokenString, tokenTypeAccess)
	if err != nil {
		return nil, err
	}
	return u.activeUser(userID)
}

func (u *authUsecase) EnsureAdmin(password string) error {
	existing, err := u.userRepo.FindByUsername(defaultAdminUsername)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hashedPassword, err := repository.HashPassword(password)
	if err != nil {
		return err
	}

	admin := &authdomain.User{
		Username: defaultAdminUsername,
		Email:    "admin@corretora.local",
		Name:     "Administrador",
		Password: hashedPassword,
		Role:     authdomain.RoleAdmin,
		Active:   true,
	}
	if err := u.userRepo.Create(admin); err != nil {
		return fmt.Errorf("create default admin: %w", err)
	}

	u.log.Info("default admin user created", zap.String("username", admin.Username))
	return nil
}

func (u *authUsecase) ListUsers() ([]*authdomain.User, error) {
	users, err := u.userRepo.List()
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []*authdomain.User{}
	}
	return users, nil
}

func (u *authUsecase) GetUser(id uint) (*authdomain.User, error) {
	user, err := u.userRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, authdomain.ErrUserNotFound
	}
	return user, nil
}

func (u *authUsecase) CreateUser(req *authdto.CreateUserRequest) (*authdomain.User, error) {
	exists, err := u.userRepo.ExistsByUsernameOrEmail(req.Username, req.Email, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, authdomain.ErrUserExists
	}

	hashedPassword, err := repository.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &authdomain.User{
		Username: req.Username,
		Email:    req.Email,
		Name:     req.Name,
		Password: hashedPassword,
		Role:     authdomain.Role(req.Role),
		Active:   true,
	}
	if user.Role == "" {
		user.Role = authdomain.RoleUser
	}
	active := req.Active == nil || *req.Active

	if err := u.userRepo.Create(user); err != nil {
		return nil, err
	}
	// gorm inserts the column default for a false bool
	if !active {
		user.Active = false
		if err := u.userRepo.Update(user); err != nil {
			return nil, err
		}
	}

	u.log.Info("user created", zap.String("username", user.Username), zap.String("role", string(user.Role)))
	return user, nil
}

func (u *authUsecase) UpdateUser(id uint, req *authdto.UpdateUserRequest) (*authdomain.User, error) {
	user, err := u.GetUser(id)
	if err != nil {
		return nil, err
	}

	exists, err := u.userRepo.ExistsByUsernameOrEmail(req.Username, req.Email, id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, authdomain.ErrUserExists
	}

	user.Username = req.Username
	user.Email = req.Email
	user.Name = req.Name
	user.Role = authdomain.Role(req.Role)
	if req.Active != nil {
		user.Active = *req.Active
	}
	if req.Password != "" {
		hashedPassword, err := repository.HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hashedPassword
	}

	if err := u.userRepo.Update(user); err != nil {
		return nil, err
	}
	if !user.Active {
		if err := u.userRepo.DeleteRefreshTokensByUser(user.ID); err != nil {
			return nil, err
		}
	}
	return user, nil
}

func (u *authUsecase) ToggleUserActive(id, actorID uint) (*authdomain.User, error) {
	user, err := u.GetUser(id)
	if err != nil {
		return nil, err
	}
	if user.ID == actorID && user.Active {
		return nil, authdomain.ErrCannotDisableSelf
	}

	user.Active = !user.Active
	if err := u.userRepo.Update(user); err != nil {
		return nil, err
	}
	if !user.Active {
		if err := u.userRepo.DeleteRefreshTokensByUser(user.ID); err != nil {
			return nil, err
		}
	}

	u.log.Info("user status changed", zap.String("username", user.Username), zap.Bool("active", user.Active))
	return user, nil
}

func (u *authUsecase) activeUser(id uint) (*authdomain.User, error) {
	user, err := u.userRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, authdomain.ErrUserNotFound
	}
	if !user.Active {
		return nil, authdomain.ErrUserInactive
	}
	return user, nil
}

func (u *authUsecase) generateTokens(user *authdomain.User) (*authdto.TokenResponse, error) {
	accessToken, err := u.signToken(user, tokenTypeAccess, u.config.JWTAccessExpiry)
	if err != nil {
		return nil, err
	}

	refreshToken, err := u.signToken(user, tokenTypeRefresh, u.config.JWTRefreshExpiry)
	if err != nil {
		return nil, err
	}

	refreshTokenEntity := &authdomain.RefreshToken{
		Token:     refreshToken,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(u.config.JWTRefreshExpiry),
	}
	if err := u.userRepo.ReplaceRefreshToken(refreshTokenEntity); err != nil {
		return nil, err
	}

	return &authdto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

func (u *authUsecase) signToken(user *authdomain.User, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Type: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(u.config.JWTSecret))
}

// parseToken verifies signature, expiry and token type and returns the
// user id from the subject claim.
func (u *authUsecase) parseToken(tokenString, tokenType string) (uint, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(u.config.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return 0, authdomain.ErrInvalidToken
	}
	if claims.Type != tokenType {
		return 0, authdomain.ErrInvalidToken
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, authdomain.ErrInvalidToken
	}
	return uint(id), nil
}
