package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/luacheia/storefront/internal/api"
	"github.com/luacheia/storefront/internal/logger"
	"github.com/luacheia/storefront/internal/models"
	"github.com/luacheia/storefront/internal/storage"
)

var (
	ErrMissingCredentials = errors.New("email and password are required")
	ErrPasswordMismatch   = errors.New("passwords do not match")
)

// Service 登录/注册。凭据只透传给远端签发方，
// 客户端唯一职责是把返回的令牌对写进设备存储
type Service struct {
	client *api.Client
	device *storage.Store
}

// NewService 创建认证服务
func NewService(client *api.Client, device *storage.Store) *Service {
	return &Service{client: client, device: device}
}

// Login 请求令牌对并持久化到设备存储
func (s *Service) Login(ctx context.Context, email, password string) (*models.TokenPair, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	payload := map[string]string{
		"email":    email,
		"password": password,
	}
	var pair models.TokenPair
	if err := s.client.PostJSON(ctx, "user/token/", payload, &pair); err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	if pair.Access == "" {
		return nil, fmt.Errorf("login failed: %w: empty access token", api.ErrResponseInvalid)
	}

	if err := s.device.Set(storage.KeyAccessToken, pair.Access); err != nil {
		return nil, err
	}
	if err := s.device.Set(storage.KeyRefreshToken, pair.Refresh); err != nil {
		return nil, err
	}
	logger.Infow("user_signed_in", "email", email)
	return &pair, nil
}

// RegisterInput 注册输入
type RegisterInput struct {
	FullName  string
	Email     string
	Phone     string
	Password  string
	Password2 string
}

// Register 注册新账号。两次密码不一致在本地拒绝，不发请求
func (s *Service) Register(ctx context.Context, input RegisterInput) error {
	if strings.TrimSpace(input.Email) == "" || input.Password == "" {
		return ErrMissingCredentials
	}
	if input.Password != input.Password2 {
		return ErrPasswordMismatch
	}

	payload := map[string]string{
		"full_name": strings.TrimSpace(input.FullName),
		"email":     strings.TrimSpace(input.Email),
		"phone":     strings.TrimSpace(input.Phone),
		"password":  input.Password,
		"password2": input.Password2,
	}
	if err := s.client.PostJSON(ctx, "user/register/", payload, nil); err != nil {
		return fmt.Errorf("register failed: %w", err)
	}
	return nil
}

// Logout 清除本地令牌对。纯本地动作，远端会话由令牌过期自然结束
func (s *Service) Logout() error {
	if err := s.device.Delete(storage.KeyAccessToken); err != nil {
		return err
	}
	if err := s.device.Delete(storage.KeyRefreshToken); err != nil {
		return err
	}
	logger.Infow("user_signed_out")
	return nil
}
