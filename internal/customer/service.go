package customer

import (
	"context"
	"errors"
	"fmt"

	"github.com/luacheia/storefront/internal/api"
	"github.com/luacheia/storefront/internal/models"
)

var ErrNotSignedIn = errors.New("customer area requires a signed-in user")

// Service 用户中心：历史订单、通知、个人档案。订单与通知只读，
// 档案支持修改（带或不带头像图片两种提交形态）
type Service struct {
	client *api.Client
}

// NewService 创建用户中心服务
func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// Orders 拉取历史订单列表
func (s *Service) Orders(ctx context.Context, userID uint) ([]models.Order, error) {
	if userID == 0 {
		return nil, ErrNotSignedIn
	}
	var orders []models.Order
	path := fmt.Sprintf("customer/orders/%d/", userID)
	if err := s.client.GetJSON(ctx, path, &orders); err != nil {
		return nil, fmt.Errorf("fetch orders failed: %w", err)
	}
	return orders, nil
}

// Order 拉取单笔订单明细（含订单行）
func (s *Service) Order(ctx context.Context, userID, orderID uint) (*models.Order, error) {
	if userID == 0 {
		return nil, ErrNotSignedIn
	}
	var order models.Order
	path := fmt.Sprintf("customer/order/%d/%d/", userID, orderID)
	if err := s.client.GetJSON(ctx, path, &order); err != nil {
		return nil, fmt.Errorf("fetch order detail failed: %w", err)
	}
	return &order, nil
}

// Notifications 拉取通知列表
func (s *Service) Notifications(ctx context.Context, userID uint) ([]models.Notification, error) {
	if userID == 0 {
		return nil, ErrNotSignedIn
	}
	var notifications []models.Notification
	path := fmt.Sprintf("customer/notification/%d/", userID)
	if err := s.client.GetJSON(ctx, path, &notifications); err != nil {
		return nil, fmt.Errorf("fetch notifications failed: %w", err)
	}
	return notifications, nil
}

// MarkNotificationSeen 标记通知已读。服务端把这个动作建模成对
// 单条通知的 GET
func (s *Service) MarkNotificationSeen(ctx context.Context, userID, notificationID uint) error {
	if userID == 0 {
		return ErrNotSignedIn
	}
	path := fmt.Sprintf("customer/notification/%d/%d/", userID, notificationID)
	if err := s.client.GetJSON(ctx, path, nil); err != nil {
		return fmt.Errorf("mark notification seen failed: %w", err)
	}
	return nil
}

// Profile 拉取个人档案
func (s *Service) Profile(ctx context.Context, userID uint) (*models.Profile, error) {
	if userID == 0 {
		return nil, ErrNotSignedIn
	}
	var profile models.Profile
	path := fmt.Sprintf("user/profile/%d/", userID)
	if err := s.client.GetJSON(ctx, path, &profile); err != nil {
		return nil, fmt.Errorf("fetch profile failed: %w", err)
	}
	return &profile, nil
}

// ProfileUpdate 档案修改输入。Email/Phone 为 nil 表示不变；
// Image 非空时走 multipart 提交新头像
type ProfileUpdate struct {
	FullName string
	Email    *string
	Phone    *string
	Image    *api.FormFile
}

// UpdateProfile 提交档案修改。无图片时提交 JSON，
// 带图片时提交 multipart（user 字段编码为 JSON 字符串），
// 两种形态与服务端的契约一致
func (s *Service) UpdateProfile(ctx context.Context, userID uint, update ProfileUpdate) (*models.Profile, error) {
	if userID == 0 {
		return nil, ErrNotSignedIn
	}
	path := fmt.Sprintf("user/profile/%d/", userID)

	userFields := map[string]string{}
	if update.Email != nil {
		userFields["email"] = *update.Email
	}
	if update.Phone != nil {
		userFields["phone"] = *update.Phone
	}

	var profile models.Profile
	if update.Image != nil {
		encodedUser, err := encodeUserFields(userFields)
		if err != nil {
			return nil, err
		}
		fields := map[string]string{
			"full_name": update.FullName,
			"user":      encodedUser,
		}
		if err := s.client.PatchForm(ctx, path, fields, update.Image, &profile); err != nil {
			return nil, fmt.Errorf("update profile failed: %w", err)
		}
		return &profile, nil
	}

	payload := map[string]interface{}{
		"full_name": update.FullName,
		"user":      userFields,
	}
	if err := s.client.PatchJSON(ctx, path, payload, &profile); err != nil {
		return nil, fmt.Errorf("update profile failed: %w", err)
	}
	return &profile, nil
}
