package usecase

import (
	"context"

	"marketcore/internal/domain/entity"
	"marketcore/internal/domain/repository"
)

type DashboardStats struct {
	Role             entity.Role `json:"role"`
	ListingsPosted   int         `json:"listings_posted"`
	FeaturedListings int         `json:"featured_listings"`
	Conversations    int         `json:"conversations"`
	MessagesSent     int         `json:"messages_sent"`
	UnreadMessages   int         `json:"unread_messages"`
}

type DashboardUseCase struct {
	catalogRepo repository.CatalogRepository
	convRepo    repository.ConversationRepository
}

func NewDashboardUseCase(catalogRepo repository.CatalogRepository, convRepo repository.ConversationRepository) *DashboardUseCase {
	return &DashboardUseCase{
		catalogRepo: catalogRepo,
		convRepo:    convRepo,
	}
}

// Stats summarises the viewer's activity across the catalog and their
// conversations.
func (uc *DashboardUseCase) Stats(ctx context.Context, viewer entity.User) (*DashboardStats, error) {
	stats := &DashboardStats{Role: viewer.Role}

	products, err := uc.catalogRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		if p.SellerID != viewer.ID {
			continue
		}
		stats.ListingsPosted++
		if p.Featured {
			stats.FeaturedListings++
		}
	}

	convs, err := uc.convRepo.ListByUserID(ctx, viewer.ID)
	if err != nil {
		return nil, err
	}
	stats.Conversations = len(convs)
	for _, c := range convs {
		msgs, err := uc.convRepo.Messages(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		for _, m := range msgs {
			switch {
			case m.SenderID == viewer.ID:
				stats.MessagesSent++
			case m.ReceiverID == viewer.ID && !m.Read:
				stats.UnreadMessages++
			}
		}
	}

	return stats, nil
}
