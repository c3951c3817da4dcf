package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"

	"github.com/luacheia/storefront/internal/api"
	"github.com/luacheia/storefront/internal/auth"
	"github.com/luacheia/storefront/internal/cart"
	"github.com/luacheia/storefront/internal/customer"
	"github.com/luacheia/storefront/internal/identity"
	"github.com/luacheia/storefront/internal/models"
)

var errUsage = errors.New("invalid arguments")

// runHome 输出首页数据：轮播图、分类、闪购与商品列表
func (a *app) runHome(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("%w: home 不接受参数", errUsage)
	}

	banners, err := a.catalog.Banners(ctx)
	if err != nil {
		return err
	}
	categories, err := a.catalog.Categories(ctx)
	if err != nil {
		return err
	}
	deals, err := a.catalog.FlashSale(ctx)
	if err != nil {
		return err
	}
	products, err := a.catalog.Products(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("轮播图 (%d):\n", len(banners))
	for _, b := range banners {
		fmt.Printf("  #%d %s\n", b.ID, b.Image)
	}
	fmt.Printf("分类 (%d):\n", len(categories))
	for _, c := range categories {
		fmt.Printf("  #%d %s\n", c.ID, c.Title)
	}
	fmt.Printf("闪购 (%d):\n", len(deals))
	for _, p := range deals {
		printProductLine(p)
	}
	fmt.Printf("商品 (%d):\n", len(products))
	for _, p := range products {
		printProductLine(p)
	}
	return nil
}

func (a *app) runProduct(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: 用法 product <id>", errUsage)
	}
	productID, err := parseID(args[0])
	if err != nil {
		return err
	}

	product, err := a.catalog.Product(ctx, productID)
	if err != nil {
		return err
	}

	fmt.Printf("#%d %s\n", product.ID, product.Title)
	fmt.Printf("  价格: %s", product.Price)
	if discount := product.DiscountPercent(); discount > 0 {
		fmt.Printf("  原价: %s  折扣: -%d%%", product.OldPrice, discount)
	}
	fmt.Println()
	fmt.Printf("  库存: %d  单行上限: %d\n", product.StockQty, product.MaxCartLimit)
	for _, color := range product.Colors {
		fmt.Printf("  颜色: %s (%s)\n", color.Name, color.ColorCode)
	}
	for _, size := range product.Sizes {
		fmt.Printf("  尺码: %s %s\n", size.Name, size.Price)
	}
	if a.wishlist.IsWishlisted(product.ID) {
		fmt.Println("  已在心愿单")
	}
	return nil
}

func (a *app) runCart(ctx context.Context, args []string) error {
	cartID, err := identity.EnsureCartID(a.device)
	if err != nil {
		return err
	}
	id := identity.Resolve(a.device)

	if len(args) == 0 {
		return a.printCart(ctx, cartID, id)
	}

	switch args[0] {
	case "add":
		return a.cartAdd(ctx, cartID, id, args[1:])
	case "rm":
		return a.cartRemove(ctx, cartID, id, args[1:])
	default:
		return fmt.Errorf("%w: 用法 cart [add|rm]", errUsage)
	}
}

func (a *app) cartAdd(ctx context.Context, cartID string, id identity.Identity, args []string) error {
	fs := flag.NewFlagSet("cart add", flag.ContinueOnError)
	productID := fs.Uint("product", 0, "商品 ID")
	qty := fs.Int("qty", 1, "数量")
	color := fs.String("color", "", "颜色")
	size := fs.String("size", "", "尺码")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *productID == 0 {
		return fmt.Errorf("%w: 缺少 -product", errUsage)
	}

	// 价格与单行上限以商品详情为准
	product, err := a.catalog.Product(ctx, uint(*productID))
	if err != nil {
		return err
	}
	price := product.Price
	for _, s := range product.Sizes {
		if s.Name == *size {
			price = s.Price
		}
	}

	items, err := a.cart.List(ctx, cartID, id)
	if err != nil {
		return err
	}
	if err := a.cart.Upsert(ctx, cartID, id, items, cart.UpsertInput{
		ProductID:    product.ID,
		Qty:          *qty,
		Price:        price,
		Color:        *color,
		Size:         *size,
		MaxCartLimit: product.MaxCartLimit,
	}); err != nil {
		return err
	}
	return a.printCart(ctx, cartID, id)
}

func (a *app) cartRemove(ctx context.Context, cartID string, id identity.Identity, args []string) error {
	fs := flag.NewFlagSet("cart rm", flag.ContinueOnError)
	itemID := fs.Uint("item", 0, "购物车行 ID")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *itemID == 0 {
		return fmt.Errorf("%w: 缺少 -item", errUsage)
	}
	if err := a.cart.Delete(ctx, cartID, uint(*itemID), id); err != nil {
		return err
	}
	return a.printCart(ctx, cartID, id)
}

// printCart 重新拉取购物车行与合计后输出
func (a *app) printCart(ctx context.Context, cartID string, id identity.Identity) error {
	view, err := a.cart.Refresh(ctx, cartID, id)
	if err != nil {
		return err
	}
	if len(view.Items) == 0 {
		fmt.Println("购物车为空")
		return nil
	}
	for _, item := range view.Items {
		fmt.Printf("  [%d] #%d %s x%d", item.ID, item.Product.ID, item.Product.Title, item.Qty)
		if item.Color != "" {
			fmt.Printf(" %s", item.Color)
		}
		if item.Size != "" {
			fmt.Printf(" %s", item.Size)
		}
		fmt.Printf("  %s\n", item.Total)
	}
	fmt.Printf("小计: %s  运费: %s  税费: %s  合计: %s\n",
		view.Totals.SubTotal, view.Totals.Shipping, view.Totals.Tax, view.Totals.Total)
	return nil
}

func (a *app) runWishlist(ctx context.Context, args []string) error {
	if len(args) == 0 {
		entries, err := a.wishlist.Entries(ctx)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("心愿单为空")
			return nil
		}
		for _, entry := range entries {
			printProductLine(entry.Product)
		}
		return nil
	}

	fs := flag.NewFlagSet("wishlist "+args[0], flag.ContinueOnError)
	productID := fs.Uint("product", 0, "商品 ID")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	if *productID == 0 {
		return fmt.Errorf("%w: 缺少 -product", errUsage)
	}

	switch args[0] {
	case "add":
		if err := a.wishlist.Add(ctx, uint(*productID)); err != nil {
			return err
		}
		fmt.Println("已加入心愿单")
	case "rm":
		if err := a.wishlist.Remove(ctx, uint(*productID)); err != nil {
			return err
		}
		fmt.Println("已移出心愿单")
	default:
		return fmt.Errorf("%w: 用法 wishlist [add|rm]", errUsage)
	}
	return nil
}

func (a *app) runOrders(ctx context.Context, args []string) error {
	id, err := requireSignIn(a)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		orders, err := a.customer.Orders(ctx, id.UserID)
		if err != nil {
			return err
		}
		if len(orders) == 0 {
			fmt.Println("暂无订单")
			return nil
		}
		for _, order := range orders {
			fmt.Printf("  #%d %s %s %s\n",
				order.OID, order.Date.Format("2006-01-02"), order.OrderStatus, order.Total)
		}
		return nil
	}

	orderID, err := parseID(args[0])
	if err != nil {
		return err
	}
	order, err := a.customer.Order(ctx, id.UserID, orderID)
	if err != nil {
		return err
	}
	fmt.Printf("订单 #%d  %s  %s\n", order.OID, order.Date.Format("2006-01-02"), order.OrderStatus)
	for _, item := range order.Items {
		fmt.Printf("  #%d %s x%d  %s\n", item.Product.ID, item.Product.Title, item.Qty, item.Price)
	}
	fmt.Printf("合计: %s\n", order.Total)
	return nil
}

func (a *app) runNotifications(ctx context.Context, args []string) error {
	id, err := requireSignIn(a)
	if err != nil {
		return err
	}

	if len(args) >= 1 && args[0] == "seen" {
		if len(args) != 2 {
			return fmt.Errorf("%w: 用法 notifications seen <id>", errUsage)
		}
		notificationID, err := parseID(args[1])
		if err != nil {
			return err
		}
		if err := a.customer.MarkNotificationSeen(ctx, id.UserID, notificationID); err != nil {
			return err
		}
		fmt.Println("已标记已读")
		return nil
	}
	if len(args) != 0 {
		return fmt.Errorf("%w: 用法 notifications [seen <id>]", errUsage)
	}

	notifications, err := a.customer.Notifications(ctx, id.UserID)
	if err != nil {
		return err
	}
	if len(notifications) == 0 {
		fmt.Println("暂无通知")
		return nil
	}
	for _, n := range notifications {
		marker := " "
		if !n.Seen {
			marker = "*"
		}
		fmt.Printf("%s [%d] %s  %s\n", marker, n.ID, n.Date.Format("2006-01-02"), n.Message)
	}
	return nil
}

func (a *app) runProfile(ctx context.Context, args []string) error {
	id, err := requireSignIn(a)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		profile, err := a.customer.Profile(ctx, id.UserID)
		if err != nil {
			return err
		}
		printProfile(profile)
		return nil
	}
	if args[0] != "update" {
		return fmt.Errorf("%w: 用法 profile [update]", errUsage)
	}

	fs := flag.NewFlagSet("profile update", flag.ContinueOnError)
	fullName := fs.String("name", "", "姓名")
	email := fs.String("email", "", "邮箱")
	phone := fs.String("phone", "", "手机号")
	imagePath := fs.String("image", "", "头像文件路径")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	update := customer.ProfileUpdate{FullName: *fullName}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "email":
			update.Email = email
		case "phone":
			update.Phone = phone
		}
	})
	if *imagePath != "" {
		file, err := readImageFile(*imagePath)
		if err != nil {
			return err
		}
		update.Image = file
	}

	profile, err := a.customer.UpdateProfile(ctx, id.UserID, update)
	if err != nil {
		return err
	}
	printProfile(profile)
	return nil
}

func (a *app) runLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "邮箱")
	password := fs.String("password", "", "密码")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if _, err := a.auth.Login(ctx, *email, *password); err != nil {
		return err
	}
	fmt.Println("登录成功")
	return nil
}

func (a *app) runRegister(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	fullName := fs.String("name", "", "姓名")
	email := fs.String("email", "", "邮箱")
	phone := fs.String("phone", "", "手机号")
	password := fs.String("password", "", "密码")
	password2 := fs.String("password2", "", "确认密码")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.auth.Register(ctx, auth.RegisterInput{
		FullName:  *fullName,
		Email:     *email,
		Phone:     *phone,
		Password:  *password,
		Password2: *password2,
	}); err != nil {
		return err
	}
	fmt.Println("注册成功，请登录")
	return nil
}

func (a *app) runLogout(args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("%w: logout 不接受参数", errUsage)
	}
	if err := a.auth.Logout(); err != nil {
		return err
	}
	fmt.Println("已退出登录")
	return nil
}

func requireSignIn(a *app) (identity.Identity, error) {
	id := identity.Resolve(a.device)
	if id.Guest {
		return id, errors.New("请先登录")
	}
	return id, nil
}

func printProductLine(p models.Product) {
	fmt.Printf("  #%d %s  %s", p.ID, p.Title, p.Price)
	if discount := p.DiscountPercent(); discount > 0 {
		fmt.Printf("  (-%d%%)", discount)
	}
	fmt.Println()
}

func printProfile(profile *models.Profile) {
	fmt.Printf("姓名: %s\n", profile.FullName)
	fmt.Printf("邮箱: %s\n", profile.User.Email)
	fmt.Printf("手机: %s\n", profile.User.Phone)
	if profile.Image != "" {
		fmt.Printf("头像: %s\n", profile.Image)
	}
}

func readImageFile(path string) (*api.FormFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image failed: %w", err)
	}
	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &api.FormFile{
		Field:       "image",
		Name:        filepath.Base(path),
		ContentType: contentType,
		Data:        data,
	}, nil
}

func parseID(raw string) (uint, error) {
	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || value == 0 {
		return 0, fmt.Errorf("%w: 无效 ID %q", errUsage, raw)
	}
	return uint(value), nil
}
