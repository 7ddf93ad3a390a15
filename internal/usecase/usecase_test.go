package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"marketcore/internal/adapter/repository"
	"marketcore/internal/domain/entity"
	"marketcore/internal/infrastructure/ratelimit"
	"marketcore/internal/infrastructure/seed"
	"marketcore/pkg/errors"
	"marketcore/pkg/locale"
	"marketcore/pkg/logger"
)

var t0 = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("m%d", n)
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newCatalog() *CatalogUseCase {
	return NewCatalogUseCase(repository.NewMemoryCatalogRepository([]*entity.Product{
		{ID: "a", Title: "Apple", Price: 3, Category: "Fruits", CreatedAt: t0.Add(-time.Hour)},
		{ID: "b", Title: "Bread", Price: 5, Category: "Bakery", Featured: true, CreatedAt: t0.Add(-2 * time.Hour)},
		{ID: "c", Title: "Cider", Price: 4, Category: "fruits", Featured: true, CreatedAt: t0},
	}))
}

func TestCatalogStoreState(t *testing.T) {
	ctx := context.Background()
	uc := newCatalog()

	assert.Equal(t, entity.SortNewest, uc.State().Sort)
	view, err := uc.View(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, productIDs(view))

	uc.SetQuery("BREAD")
	view, _ = uc.View(ctx)
	assert.Equal(t, []string{"b"}, productIDs(view))

	uc.SetQuery("")
	uc.SetCategory("FRUITS")
	uc.SetSort(entity.SortPriceLow)
	view, _ = uc.View(ctx)
	assert.Equal(t, []string{"a", "c"}, productIDs(view))

	// ViewWith ignores the stored state.
	view, _ = uc.ViewWith(ctx, entity.FilterState{Sort: entity.SortFeatured})
	assert.Equal(t, []string{"c", "b", "a"}, productIDs(view))
	assert.Equal(t, "FRUITS", uc.State().Category)

	all, _ := uc.Products(ctx)
	assert.Equal(t, []string{"a", "b", "c"}, productIDs(all))
}

func TestCatalogFeaturedAndCategories(t *testing.T) {
	ctx := context.Background()
	uc := newCatalog()

	featured, err := uc.Featured(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, productIDs(featured))

	featured, _ = uc.Featured(ctx, 0)
	assert.Equal(t, []string{"b", "c"}, productIDs(featured))

	cats, err := uc.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bakery", "Fruits"}, cats)

	_, err = uc.GetProduct(ctx, "zzz")
	assert.True(t, errors.Is(err, "NOT_FOUND"))
	_, err = uc.GetProduct(ctx, " ")
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func productIDs(ps []*entity.Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func TestOtherParty(t *testing.T) {
	conv := &entity.Conversation{ID: "c", BuyerID: "u1", SellerID: "u2"}

	other, err := OtherParty(conv, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u2", other)

	other, err = OtherParty(conv, "u2")
	require.NoError(t, err)
	assert.Equal(t, "u1", other)

	_, err = OtherParty(conv, "u3")
	assert.True(t, errors.Is(err, "INVALID_STATE"))
	_, err = OtherParty(conv, "")
	assert.True(t, errors.Is(err, "INVALID_STATE"))
}

func TestConversationsForOrdersByActivity(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryConversationRepository()
	t1 := t0
	t2 := t0.Add(time.Hour)

	require.NoError(t, repo.Save(ctx, &entity.Conversation{
		ID: "B", BuyerID: "u9", SellerID: "u1", CreatedAt: t0.Add(-48 * time.Hour),
		LastMessage: &entity.Message{Timestamp: t1},
	}))
	require.NoError(t, repo.Save(ctx, &entity.Conversation{
		ID: "A", BuyerID: "u1", SellerID: "u2", CreatedAt: t0.Add(-72 * time.Hour),
		LastMessage: &entity.Message{Timestamp: t2},
	}))
	// No last message: ordered by creation time.
	require.NoError(t, repo.Save(ctx, &entity.Conversation{
		ID: "C", BuyerID: "u1", SellerID: "u3", CreatedAt: t0.Add(30 * time.Minute),
	}))
	require.NoError(t, repo.Save(ctx, &entity.Conversation{ID: "X", BuyerID: "u7", SellerID: "u8"}))

	uc := NewConversationUseCase(repo, nil)
	convs, err := uc.ConversationsFor(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, convs, 3)
	assert.Equal(t, "A", convs[0].ID)
	assert.Equal(t, "C", convs[1].ID)
	assert.Equal(t, "B", convs[2].ID)

	found, err := uc.Search(ctx, "u1", "nothing")
	require.NoError(t, err)
	assert.Empty(t, found)

	_, err = uc.Get(ctx, "u1", "X")
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestOpenSeedsOnce(t *testing.T) {
	ctx := context.Background()
	data, err := seed.Default()
	require.NoError(t, err)

	repo := repository.NewMemoryConversationRepository()
	uc := NewConversationUseCase(repo, data)
	viewer := entity.User{ID: "u1", Role: entity.RoleBuyer}

	convs, err := uc.Open(ctx, viewer, locale.English)
	require.NoError(t, err)
	require.Len(t, convs, 3)
	assert.Equal(t, "1-u1", convs[0].ID)
	assert.Equal(t, "2-u1", convs[1].ID)
	assert.Equal(t, "3-u1", convs[2].ID)

	again, err := uc.Open(ctx, viewer, locale.English)
	require.NoError(t, err)
	assert.Len(t, again, 3)

	msgs, err := repo.Messages(ctx, "1-u1")
	require.NoError(t, err)
	assert.Len(t, msgs, 5)

	found, err := uc.Search(ctx, "u1", "jasmine")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "3-u1", found[0].ID)

	found, _ = uc.Search(ctx, "u1", "TOMORROW")
	assert.Len(t, found, 2)

	unread, err := uc.UnreadCount(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 1, unread)
}

func newChat(t *testing.T, limiter *ratelimit.RateLimiter) (*ChatUseCase, *entity.Conversation, func() []*entity.Message) {
	t.Helper()
	ctx := context.Background()
	repo := repository.NewMemoryConversationRepository()
	conv := &entity.Conversation{ID: "c1", BuyerID: "u1", SellerID: "u2", CreatedAt: t0}
	require.NoError(t, repo.Save(ctx, conv))

	uc := NewChatUseCase(repo, limiter, WithClock(fixedClock(t0)), WithIDGenerator(sequentialIDs()))
	history := func() []*entity.Message {
		msgs, err := uc.History(ctx, "c1")
		require.NoError(t, err)
		return msgs
	}
	return uc, conv, history
}

func TestSendInfersReceiver(t *testing.T) {
	ctx := context.Background()
	uc, conv, history := newChat(t, nil)

	m, err := uc.Send(ctx, conv, "u1", "hi")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "u1", m.SenderID)
	assert.Equal(t, "u2", m.ReceiverID)
	assert.False(t, m.Read)
	assert.Equal(t, "c1", m.ConversationID)

	reply, err := uc.Send(ctx, conv, "u2", "hello back")
	require.NoError(t, err)
	assert.Equal(t, "u1", reply.ReceiverID)

	msgs := history()
	require.Len(t, msgs, 2)
	// Same timestamp: insertion order wins.
	assert.Equal(t, "m1", msgs[0].ID)
	assert.Equal(t, "m2", msgs[1].ID)
	assert.Equal(t, reply.ID, msgs[len(msgs)-1].ID)
}

func TestSendBlankIsNoOp(t *testing.T) {
	ctx := context.Background()
	uc, conv, history := newChat(t, nil)

	for _, content := range []string{"", "   ", "\n\t"} {
		m, err := uc.Send(ctx, conv, "u1", content)
		assert.NoError(t, err)
		assert.Nil(t, m)
	}
	assert.Empty(t, history())
}

func TestSendByOutsiderIsInvalidState(t *testing.T) {
	ctx := context.Background()
	uc, conv, history := newChat(t, nil)

	_, err := uc.Send(ctx, conv, "u3", "hello")
	assert.True(t, errors.Is(err, "INVALID_STATE"))
	assert.Empty(t, history())
}

func TestSendUpdatesLastMessage(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryConversationRepository()
	conv := &entity.Conversation{ID: "c1", BuyerID: "u1", SellerID: "u2", CreatedAt: t0.Add(-time.Hour)}
	require.NoError(t, repo.Save(ctx, conv))
	uc := NewChatUseCase(repo, nil, WithClock(fixedClock(t0)))

	m, err := uc.Send(ctx, conv, "u2", "still available")
	require.NoError(t, err)

	stored, err := repo.GetByID(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, stored.LastMessage)
	assert.Equal(t, m.ID, stored.LastMessage.ID)
	assert.Equal(t, t0, stored.LastActivity())
	assert.Nil(t, conv.LastMessage, "caller's conversation is not mutated")
}

func TestSendLastMessageOnlyMovesForward(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryConversationRepository()
	conv := &entity.Conversation{ID: "c1", BuyerID: "u1", SellerID: "u2", CreatedAt: t0.Add(-time.Hour)}
	require.NoError(t, repo.Save(ctx, conv))

	clock := t0.Add(time.Minute)
	uc := NewChatUseCase(repo, nil, WithClock(func() time.Time { return clock }), WithIDGenerator(sequentialIDs()))
	newer, err := uc.Send(ctx, conv, "u1", "sent second, stamped later")
	require.NoError(t, err)

	// A send that was stamped earlier but lands afterwards keeps the newer one.
	clock = t0
	_, err = uc.Send(ctx, conv, "u2", "stamped earlier")
	require.NoError(t, err)

	stored, err := repo.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, newer.ID, stored.LastMessage.ID)
	assert.Equal(t, t0.Add(time.Minute), stored.LastActivity())
}

func TestSendRateLimited(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zapcore.WarnLevel)
	logger.SetLogger(zap.New(core))
	t.Cleanup(func() { logger.Configure("test") })

	uc, conv, history := newChat(t, ratelimit.NewRateLimiter(2))

	_, err := uc.Send(ctx, conv, "u1", "one")
	require.NoError(t, err)
	_, err = uc.Send(ctx, conv, "u1", "two")
	require.NoError(t, err)
	_, err = uc.Send(ctx, conv, "u1", "three")
	assert.True(t, errors.Is(err, "TOO_MANY_REQUESTS"))
	assert.Len(t, history(), 2)
	assert.Equal(t, 1, logs.FilterField(zap.String("user", "u1")).Len())
}

func TestHistoryByDayAndRead(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryConversationRepository()
	conv := &entity.Conversation{ID: "c1", BuyerID: "u1", SellerID: "u2"}
	require.NoError(t, repo.Save(ctx, conv))

	clock := t0
	uc := NewChatUseCase(repo, nil, WithClock(func() time.Time { return clock }), WithIDGenerator(sequentialIDs()))
	_, err := uc.Send(ctx, conv, "u1", "day one")
	require.NoError(t, err)
	clock = t0.Add(24 * time.Hour)
	_, err = uc.Send(ctx, conv, "u2", "day two")
	require.NoError(t, err)
	_, err = uc.Send(ctx, conv, "u1", "day two again")
	require.NoError(t, err)

	groups, err := uc.HistoryByDay(ctx, "c1", time.UTC)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Len(t, groups[0].Messages, 1)
	assert.Len(t, groups[1].Messages, 2)

	_, err = uc.MarkRead(ctx, "c1", "m2", "u2")
	assert.True(t, errors.Is(err, "FORBIDDEN"), "sender cannot mark its own message")
	_, err = uc.MarkRead(ctx, "c1", "m9", "u1")
	assert.True(t, errors.Is(err, "NOT_FOUND"))

	m, err := uc.MarkRead(ctx, "c1", "m2", "u1")
	require.NoError(t, err)
	assert.True(t, m.Read)

	n, err := uc.MarkConversationRead(ctx, "c1", "u2")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestDashboardStats(t *testing.T) {
	ctx := context.Background()
	catalog := repository.NewMemoryCatalogRepository([]*entity.Product{
		{ID: "p1", SellerID: "s1", Featured: true},
		{ID: "p2", SellerID: "s1"},
		{ID: "p3", SellerID: "s2"},
	})
	convRepo := repository.NewMemoryConversationRepository()
	conv := &entity.Conversation{ID: "c1", BuyerID: "b1", SellerID: "s1"}
	require.NoError(t, convRepo.Save(ctx, conv))

	chat := NewChatUseCase(convRepo, nil, WithClock(fixedClock(t0)))
	_, err := chat.Send(ctx, conv, "b1", "is it fresh?")
	require.NoError(t, err)
	_, err = chat.Send(ctx, conv, "s1", "yes")
	require.NoError(t, err)

	uc := NewDashboardUseCase(catalog, convRepo)
	stats, err := uc.Stats(ctx, entity.User{ID: "s1", Role: entity.RoleSeller})
	require.NoError(t, err)
	assert.Equal(t, &DashboardStats{
		Role:             entity.RoleSeller,
		ListingsPosted:   2,
		FeaturedListings: 1,
		Conversations:    1,
		MessagesSent:     1,
		UnreadMessages:   1,
	}, stats)
}
