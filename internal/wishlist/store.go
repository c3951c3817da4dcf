package wishlist

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/luacheia/storefront/internal/api"
	"github.com/luacheia/storefront/internal/identity"
	"github.com/luacheia/storefront/internal/logger"
	"github.com/luacheia/storefront/internal/models"
	"github.com/luacheia/storefront/internal/storage"
)

var (
	ErrNotSignedIn = errors.New("wishlist requires a signed-in user")
	ErrBusy        = errors.New("wishlist update already in progress")
)

// Store 会话级心愿单状态。进程内构造一次并注入到所有需要的界面，
// 本地只缓存已收藏的商品 id 集合，服务端数据始终是权威
type Store struct {
	client *api.Client
	device *storage.Store

	mu      sync.Mutex
	items   map[uint]struct{}
	loading bool
}

// NewStore 创建心愿单状态
func NewStore(client *api.Client, device *storage.Store) *Store {
	return &Store{
		client: client,
		device: device,
		items:  make(map[uint]struct{}),
	}
}

// IsWishlisted 本地集合查询，不发任何请求
func (s *Store) IsWishlisted(productID uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.items[productID]
	return ok
}

// ProductIDs 返回本地集合快照（升序）
func (s *Store) ProductIDs() []uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]uint, 0, len(s.items))
	for id := range s.items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Loading 是否有写操作在途
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Add 收藏商品。先乐观地写入本地集合再发请求；
// 请求失败时整体重拉服务端状态回滚（与 Remove 对称，见 DESIGN.md）
func (s *Store) Add(ctx context.Context, productID uint) error {
	return s.mutate(ctx, productID, true)
}

// Remove 取消收藏。镜像 Add：乐观移除，失败则重拉回滚
func (s *Store) Remove(ctx context.Context, productID uint) error {
	return s.mutate(ctx, productID, false)
}

func (s *Store) mutate(ctx context.Context, productID uint, insert bool) error {
	id := identity.Resolve(s.device)
	if id.Guest {
		return ErrNotSignedIn
	}

	if err := s.begin(); err != nil {
		return err
	}
	defer s.end()

	// 乐观更新：等待网络确认之前本地先生效
	s.mu.Lock()
	if insert {
		s.items[productID] = struct{}{}
	} else {
		delete(s.items, productID)
	}
	s.mu.Unlock()

	if err := s.toggle(ctx, id, productID); err != nil {
		logger.Warnw("wishlist_toggle_failed",
			"product_id", productID,
			"insert", insert,
			"error", err,
		)
		// 回滚方式是整体重拉而不是本地逆操作：服务端是权威状态
		if refreshErr := s.refresh(ctx, id); refreshErr != nil {
			logger.Errorw("wishlist_rollback_refetch_failed", "error", refreshErr)
		}
		return err
	}
	return nil
}

// Refresh 无条件重拉当前用户的心愿单并整体替换本地集合。
// 访客没有心愿单，本地集合清空
func (s *Store) Refresh(ctx context.Context) error {
	id := identity.Resolve(s.device)
	if id.Guest {
		s.replace(nil)
		return nil
	}
	return s.refresh(ctx, id)
}

// Entries 拉取完整心愿单条目（心愿单界面用），同时刷新本地集合
func (s *Store) Entries(ctx context.Context) ([]models.WishlistEntry, error) {
	id := identity.Resolve(s.device)
	if id.Guest {
		return nil, ErrNotSignedIn
	}
	entries, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	s.replaceFromEntries(entries)
	return entries, nil
}

func (s *Store) refresh(ctx context.Context, id identity.Identity) error {
	entries, err := s.fetch(ctx, id)
	if err != nil {
		return err
	}
	s.replaceFromEntries(entries)
	return nil
}

func (s *Store) fetch(ctx context.Context, id identity.Identity) ([]models.WishlistEntry, error) {
	var entries []models.WishlistEntry
	path := fmt.Sprintf("customer/wishlist/%d/", id.UserID)
	if err := s.client.GetJSON(ctx, path, &entries); err != nil {
		return nil, fmt.Errorf("fetch wishlist failed: %w", err)
	}
	return entries, nil
}

// toggle 服务端以 POST 同一端点切换收藏状态
func (s *Store) toggle(ctx context.Context, id identity.Identity, productID uint) error {
	path := fmt.Sprintf("customer/wishlist/%d/", id.UserID)
	fields := map[string]string{
		"product_id": fmt.Sprintf("%d", productID),
		"user_id":    id.FormUserID(),
	}
	return s.client.PostForm(ctx, path, fields, nil)
}

func (s *Store) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loading {
		return ErrBusy
	}
	s.loading = true
	return nil
}

func (s *Store) end() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

func (s *Store) replace(ids []uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		s.items[id] = struct{}{}
	}
}

func (s *Store) replaceFromEntries(entries []models.WishlistEntry) {
	ids := make([]uint, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.Product.ID)
	}
	s.replace(ids)
}
