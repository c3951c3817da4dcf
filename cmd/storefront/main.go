package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/luacheia/storefront/internal/api"
	"github.com/luacheia/storefront/internal/auth"
	"github.com/luacheia/storefront/internal/cart"
	"github.com/luacheia/storefront/internal/catalog"
	"github.com/luacheia/storefront/internal/config"
	"github.com/luacheia/storefront/internal/customer"
	"github.com/luacheia/storefront/internal/logger"
	"github.com/luacheia/storefront/internal/storage"
	"github.com/luacheia/storefront/internal/wishlist"
)

// app 聚合所有命令共享的依赖
type app struct {
	device   *storage.Store
	client   *api.Client
	catalog  *catalog.Service
	cart     *cart.Service
	wishlist *wishlist.Store
	customer *customer.Service
	auth     *auth.Service
}

func main() {
	// 加载配置
	cfg := config.Load()
	logger.Init(cfg.App.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	// 打开设备存储（cartID 与令牌对的持久化位置）
	device, err := storage.Open(cfg.Storage.Driver, cfg.Storage.DSN, storage.PoolConfig{
		MaxOpenConns:           cfg.Storage.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Storage.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Storage.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Storage.Pool.ConnMaxIdleTimeSeconds,
	})
	if err != nil {
		stdLog.Fatalf("设备存储初始化失败: %v", err)
	}
	defer device.Close()

	client := api.New(api.Options{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   time.Duration(cfg.API.TimeoutMS) * time.Millisecond,
		UserAgent: cfg.API.UserAgent,
	})

	a := &app{
		device:   device,
		client:   client,
		catalog:  catalog.NewService(client),
		cart:     cart.NewService(client),
		wishlist: wishlist.NewStore(client, device),
		customer: customer.NewService(client),
		auth:     auth.NewService(client, device),
	}

	flag.Usage = usage
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	// Ctrl-C 取消正在进行的请求
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := dispatch(ctx, a, args[0], args[1:]); err != nil {
		stop()
		stdLog.Fatalf("命令执行失败: %v", err)
	}
}

func dispatch(ctx context.Context, a *app, command string, args []string) error {
	switch command {
	case "home":
		return a.runHome(ctx, args)
	case "product":
		return a.runProduct(ctx, args)
	case "cart":
		return a.runCart(ctx, args)
	case "wishlist":
		return a.runWishlist(ctx, args)
	case "orders":
		return a.runOrders(ctx, args)
	case "notifications":
		return a.runNotifications(ctx, args)
	case "profile":
		return a.runProfile(ctx, args)
	case "login":
		return a.runLogin(ctx, args)
	case "register":
		return a.runRegister(ctx, args)
	case "logout":
		return a.runLogout(args)
	default:
		usage()
		return fmt.Errorf("未知命令: %s", command)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "用法: storefront <命令> [参数]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "命令:")
	fmt.Fprintln(os.Stderr, "  home                     首页（轮播图、分类、闪购、商品列表）")
	fmt.Fprintln(os.Stderr, "  product <id>             商品详情")
	fmt.Fprintln(os.Stderr, "  cart [add|rm]            查看/修改购物车")
	fmt.Fprintln(os.Stderr, "  wishlist [add|rm]        查看/修改心愿单（需登录）")
	fmt.Fprintln(os.Stderr, "  orders [<oid>]           订单列表/详情（需登录）")
	fmt.Fprintln(os.Stderr, "  notifications [seen <id>] 通知列表/标记已读（需登录）")
	fmt.Fprintln(os.Stderr, "  profile [update]         查看/修改档案（需登录）")
	fmt.Fprintln(os.Stderr, "  login                    登录")
	fmt.Fprintln(os.Stderr, "  register                 注册")
	fmt.Fprintln(os.Stderr, "  logout                   退出登录")
}
