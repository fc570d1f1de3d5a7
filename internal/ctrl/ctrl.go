package ctrl

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/HiSumm3rs/Bot-IDBL/internal/dto"
	"github.com/HiSumm3rs/Bot-IDBL/internal/model"
	"github.com/opentracing/opentracing-go"
	"go.uber.org/zap"
)

type AppRepo interface {
	Load(ctx context.Context) (*model.Document, error)
	Save(ctx context.Context, doc *model.Document) error
}

type AppCtrl interface {
	Balance(ctx context.Context, userID string) (int, error)
	ListShop(ctx context.Context) ([]dto.ShopEntry, error)
	Purchase(ctx context.Context, userID, displayName string, position int) (*model.PurchaseRecord, error)
	Ranking(ctx context.Context) ([]dto.RankEntry, error)
	History(ctx context.Context, displayName string) ([]model.PurchaseRecord, error)
	Grant(ctx context.Context, userID string, amount int) (int, error)
	Revoke(ctx context.Context, userID string, amount int) (int, error)
	AddItem(ctx context.Context, name string, price int, description string) (int, error)
}

// Controller implements the token ledger. Every operation is a full
// load-mutate-save sequence against the repository; mu serializes those
// sequences so overlapping commands cannot lose each other's writes.
type Controller struct {
	mu   sync.Mutex
	repo AppRepo
}

func New(repo AppRepo) *Controller {
	return &Controller{repo: repo}
}

// Balance returns the caller's token count. Referencing an unseen user
// creates its account with zero tokens, and the creation is persisted.
func (c *Controller) Balance(ctx context.Context, userID string) (int, error) {
	const op = "economy.Balance.ctrl"
	span, _ := opentracing.StartSpanFromContext(ctx, op)
	ctx = opentracing.ContextWithSpan(ctx, span)
	defer span.Finish()

	c.mu.Lock()
	defer c.mu.Unlock()

	doc, err := c.repo.Load(ctx)
	if err != nil {
		return 0, err
	}

	acc, created := doc.Users.Ensure(userID)
	if created {
		zap.L().Info(
			"user not found, creating...",
			zap.String("uid", userID),
		)
		if err = c.repo.Save(ctx, doc); err != nil {
			return 0, err
		}
	}

	return acc.Tokens, nil
}

// ListShop enumerates catalog items with their 1-based positions.
func (c *Controller) ListShop(ctx context.Context) ([]dto.ShopEntry, error) {
	const op = "economy.ListShop.ctrl"
	span, _ := opentracing.StartSpanFromContext(ctx, op)
	ctx = opentracing.ContextWithSpan(ctx, span)
	defer span.Finish()

	c.mu.Lock()
	defer c.mu.Unlock()

	doc, err := c.repo.Load(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]dto.ShopEntry, 0, len(doc.Items))
	for i, item := range doc.Items {
		res = append(
			res, dto.ShopEntry{
				Position:    i + 1,
				Name:        item.Name,
				Price:       item.Price,
				Description: item.Description,
			},
		)
	}
	return res, nil
}

// Purchase debits the item price from the buyer and appends a purchase
// record. On any failure the document is left untouched.
func (c *Controller) Purchase(ctx context.Context, userID, displayName string, position int) (*model.PurchaseRecord, error) {
	const op = "economy.Purchase.ctrl"
	span, _ := opentracing.StartSpanFromContext(ctx, op)
	ctx = opentracing.ContextWithSpan(ctx, span)
	defer span.Finish()

	c.mu.Lock()
	defer c.mu.Unlock()

	doc, err := c.repo.Load(ctx)
	if err != nil {
		return nil, err
	}

	acc, _ := doc.Users.Ensure(userID)
	if position < 1 || position > len(doc.Items) {
		return nil, ErrItemNotFound
	}

	item := doc.Items[position-1]
	if acc.Tokens < item.Price {
		return nil, &InsufficientFundsError{Required: item.Price}
	}

	acc.Tokens -= item.Price
	rec := model.PurchaseRecord{
		Buyer: displayName,
		Item:  item.Name,
		Price: item.Price,
		Date:  time.Now().Format(model.DateLayout),
	}
	doc.Purchases = append(doc.Purchases, rec)

	if err = c.repo.Save(ctx, doc); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Ranking returns every account ordered by tokens descending. Ties keep
// document order; the sort must stay stable for that to hold.
func (c *Controller) Ranking(ctx context.Context) ([]dto.RankEntry, error) {
	const op = "economy.Ranking.ctrl"
	span, _ := opentracing.StartSpanFromContext(ctx, op)
	ctx = opentracing.ContextWithSpan(ctx, span)
	defer span.Finish()

	c.mu.Lock()
	defer c.mu.Unlock()

	doc, err := c.repo.Load(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]dto.RankEntry, 0, doc.Users.Len())
	for _, id := range doc.Users.IDs() {
		acc, _ := doc.Users.Get(id)
		res = append(res, dto.RankEntry{UserID: id, Tokens: acc.Tokens})
	}

	sort.SliceStable(
		res, func(i, j int) bool {
			return res[i].Tokens > res[j].Tokens
		},
	)
	return res, nil
}

// History returns the caller's purchases in chronological order, matched by
// exact display name. Records made under a previous display name will not
// match; the on-disk format keys purchases by name, not id.
func (c *Controller) History(ctx context.Context, displayName string) ([]model.PurchaseRecord, error) {
	const op = "economy.History.ctrl"
	span, _ := opentracing.StartSpanFromContext(ctx, op)
	ctx = opentracing.ContextWithSpan(ctx, span)
	defer span.Finish()

	c.mu.Lock()
	defer c.mu.Unlock()

	doc, err := c.repo.Load(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]model.PurchaseRecord, 0)
	for _, p := range doc.Purchases {
		if p.Buyer == displayName {
			res = append(res, p)
		}
	}
	return res, nil
}

// Grant credits amount to the target and returns the new balance. Negative
// amounts are accepted; this is an administrator surface.
func (c *Controller) Grant(ctx context.Context, userID string, amount int) (int, error) {
	const op = "economy.Grant.ctrl"
	span, _ := opentracing.StartSpanFromContext(ctx, op)
	ctx = opentracing.ContextWithSpan(ctx, span)
	defer span.Finish()

	c.mu.Lock()
	defer c.mu.Unlock()

	doc, err := c.repo.Load(ctx)
	if err != nil {
		return 0, err
	}

	acc, _ := doc.Users.Ensure(userID)
	acc.Tokens += amount

	if err = c.repo.Save(ctx, doc); err != nil {
		return 0, err
	}
	return acc.Tokens, nil
}

// Revoke debits amount from the target. The balance never goes negative: a
// short balance fails with InsufficientBalanceError and no mutation.
func (c *Controller) Revoke(ctx context.Context, userID string, amount int) (int, error) {
	const op = "economy.Revoke.ctrl"
	span, _ := opentracing.StartSpanFromContext(ctx, op)
	ctx = opentracing.ContextWithSpan(ctx, span)
	defer span.Finish()

	c.mu.Lock()
	defer c.mu.Unlock()

	doc, err := c.repo.Load(ctx)
	if err != nil {
		return 0, err
	}

	acc, _ := doc.Users.Ensure(userID)
	if acc.Tokens < amount {
		return 0, &InsufficientBalanceError{Current: acc.Tokens}
	}
	acc.Tokens -= amount

	if err = c.repo.Save(ctx, doc); err != nil {
		return 0, err
	}
	return acc.Tokens, nil
}

// AddItem appends a catalog item and returns its position. Prices and names
// are stored as given; duplicates are allowed.
func (c *Controller) AddItem(ctx context.Context, name string, price int, description string) (int, error) {
	const op = "economy.AddItem.ctrl"
	span, _ := opentracing.StartSpanFromContext(ctx, op)
	ctx = opentracing.ContextWithSpan(ctx, span)
	defer span.Finish()

	c.mu.Lock()
	defer c.mu.Unlock()

	doc, err := c.repo.Load(ctx)
	if err != nil {
		return 0, err
	}

	doc.Items = append(
		doc.Items, model.ShopItem{
			Name:        name,
			Price:       price,
			Description: description,
		},
	)

	if err = c.repo.Save(ctx, doc); err != nil {
		return 0, err
	}
	return len(doc.Items), nil
}
