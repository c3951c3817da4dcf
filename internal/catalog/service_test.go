package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/luacheia/storefront/internal/api"
	"github.com/luacheia/storefront/internal/models"

	"github.com/gin-gonic/gin"
)

func newTestClient(t *testing.T, register func(r *gin.Engine)) *api.Client {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	register(r)
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return api.New(api.Options{BaseURL: server.URL + "/api/v1/", Timeout: 2 * time.Second})
}

func TestProductsAndDetail(t *testing.T) {
	price, _ := models.NewMoneyFromString("75.00")
	oldPrice, _ := models.NewMoneyFromString("100.00")
	client := newTestClient(t, func(r *gin.Engine) {
		r.GET("/api/v1/products/", func(c *gin.Context) {
			c.JSON(http.StatusOK, []models.Product{
				{ID: 7, Title: "shirt", Price: price, OldPrice: oldPrice, MaxCartLimit: 10},
			})
		})
		r.GET("/api/v1/products/7", func(c *gin.Context) {
			c.JSON(http.StatusOK, models.Product{
				ID:       7,
				Title:    "shirt",
				Price:    price,
				OldPrice: oldPrice,
				StockQty: 3,
				Colors: []models.ProductColor{
					{Name: "red", ColorCode: "#ff0000"},
				},
				Sizes: []models.ProductSize{
					{Name: "M", Price: price},
				},
			})
		})
	})
	service := NewService(client)

	products, err := service.Products(context.Background())
	if err != nil {
		t.Fatalf("products failed: %v", err)
	}
	if len(products) != 1 || products[0].ID != 7 {
		t.Fatalf("unexpected products: %+v", products)
	}

	product, err := service.Product(context.Background(), 7)
	if err != nil {
		t.Fatalf("product detail failed: %v", err)
	}
	if product.StockQty != 3 || len(product.Colors) != 1 || len(product.Sizes) != 1 {
		t.Fatalf("unexpected product: %+v", product)
	}
	if got := product.DiscountPercent(); got != 25 {
		t.Fatalf("discount want 25 got %d", got)
	}
}

func TestCategoriesBannersFlashSale(t *testing.T) {
	client := newTestClient(t, func(r *gin.Engine) {
		r.GET("/api/v1/category/", func(c *gin.Context) {
			c.JSON(http.StatusOK, []models.Category{{ID: 1, Title: "Electronics"}})
		})
		r.GET("/api/v1/banners/", func(c *gin.Context) {
			c.JSON(http.StatusOK, []models.Banner{{ID: 1, Image: "banner.jpg"}})
		})
		r.GET("/api/v1/offers-carousel/", func(c *gin.Context) {
			c.JSON(http.StatusOK, []models.Product{{ID: 2, Title: "deal"}})
		})
	})
	service := NewService(client)
	ctx := context.Background()

	categories, err := service.Categories(ctx)
	if err != nil || len(categories) != 1 {
		t.Fatalf("categories failed: err=%v len=%d", err, len(categories))
	}
	banners, err := service.Banners(ctx)
	if err != nil || len(banners) != 1 {
		t.Fatalf("banners failed: err=%v len=%d", err, len(banners))
	}
	deals, err := service.FlashSale(ctx)
	if err != nil || len(deals) != 1 {
		t.Fatalf("flash sale failed: err=%v len=%d", err, len(deals))
	}
	if deals[0].Title != "deal" {
		t.Fatalf("unexpected flash sale product: %+v", deals[0])
	}
}
