package catalog

import (
	"context"
	"fmt"

	"github.com/luacheia/storefront/internal/api"
	"github.com/luacheia/storefront/internal/models"
)

// Service 商品浏览：首页商品墙、分类、轮播图与限时特卖。全部只读
type Service struct {
	client *api.Client
}

// NewService 创建浏览服务
func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// Products 拉取商品列表
func (s *Service) Products(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := s.client.GetJSON(ctx, "products/", &products); err != nil {
		return nil, fmt.Errorf("fetch products failed: %w", err)
	}
	return products, nil
}

// Product 拉取商品详情
func (s *Service) Product(ctx context.Context, productID uint) (*models.Product, error) {
	var product models.Product
	path := fmt.Sprintf("products/%d", productID)
	if err := s.client.GetJSON(ctx, path, &product); err != nil {
		return nil, fmt.Errorf("fetch product failed: %w", err)
	}
	return &product, nil
}

// Categories 拉取分类列表
func (s *Service) Categories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := s.client.GetJSON(ctx, "category/", &categories); err != nil {
		return nil, fmt.Errorf("fetch categories failed: %w", err)
	}
	return categories, nil
}

// Banners 拉取首页轮播图
func (s *Service) Banners(ctx context.Context) ([]models.Banner, error) {
	var banners []models.Banner
	if err := s.client.GetJSON(ctx, "banners/", &banners); err != nil {
		return nil, fmt.Errorf("fetch banners failed: %w", err)
	}
	return banners, nil
}

// FlashSale 拉取限时特卖商品
func (s *Service) FlashSale(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := s.client.GetJSON(ctx, "offers-carousel/", &products); err != nil {
		return nil, fmt.Errorf("fetch flash sale failed: %w", err)
	}
	return products, nil
}
