// Package seed provides the demo catalog and conversation fixtures that
// stand in for a backend until a real data source is configured.
package seed

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"marketcore/internal/domain/entity"
	"marketcore/pkg/locale"
)

//go:embed data.yaml
var defaultData []byte

type localized struct {
	EN string `yaml:"en"`
	TH string `yaml:"th"`
}

func (l localized) In(lang locale.Language) string {
	if lang == locale.Thai && l.TH != "" {
		return l.TH
	}
	return l.EN
}

type messageTemplate struct {
	ID        string      `yaml:"id"`
	From      entity.Role `yaml:"from"`
	Timestamp time.Time   `yaml:"timestamp"`
	Read      bool        `yaml:"read"`
	Content   localized   `yaml:"content"`
}

type conversationTemplate struct {
	ID           string            `yaml:"id"`
	ProductID    string            `yaml:"product_id"`
	ProductTitle localized         `yaml:"product_title"`
	BuyerID      string            `yaml:"buyer_id"`
	SellerID     string            `yaml:"seller_id"`
	CreatedAt    time.Time         `yaml:"created_at"`
	Messages     []messageTemplate `yaml:"messages"`
}

// Data is a parsed fixture file.
type Data struct {
	Catalog       []*entity.Product      `yaml:"products"`
	Conversations []conversationTemplate `yaml:"conversations"`
}

// Thread is a synthesized conversation together with its message history.
type Thread struct {
	Conversation *entity.Conversation
	Messages     []*entity.Message
}

// Default returns the embedded fixtures.
func Default() (*Data, error) {
	return Load(bytes.NewReader(defaultData))
}

// LoadFile reads fixtures from path, or the embedded ones when path is empty.
func LoadFile(path string) (*Data, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

func Load(r io.Reader) (*Data, error) {
	var d Data
	if err := yaml.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode seed data: %w", err)
	}

	seen := make(map[string]bool, len(d.Catalog))
	for _, p := range d.Catalog {
		if p.ID == "" {
			return nil, fmt.Errorf("seed product without id: %q", p.Title)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("duplicate seed product id %s", p.ID)
		}
		if p.Price < 0 {
			return nil, fmt.Errorf("seed product %s has negative price", p.ID)
		}
		seen[p.ID] = true
	}
	return &d, nil
}

// Products returns copies of the catalog entries.
func (d *Data) Products() []*entity.Product {
	out := make([]*entity.Product, 0, len(d.Catalog))
	for _, p := range d.Catalog {
		cp := *p
		out = append(out, &cp)
	}
	return out
}

// ThreadsFor instantiates the conversation templates for a viewer. The
// viewer takes the buyer or seller slot matching their role; templates where
// that would leave the viewer talking to themselves are skipped.
func (d *Data) ThreadsFor(viewer entity.User, lang locale.Language) []Thread {
	threads := make([]Thread, 0, len(d.Conversations))
	for _, tpl := range d.Conversations {
		buyerID, sellerID := tpl.BuyerID, tpl.SellerID
		if viewer.IsSeller() {
			sellerID = viewer.ID
		} else {
			buyerID = viewer.ID
		}
		if buyerID == sellerID {
			continue
		}

		conv := &entity.Conversation{
			ID:           tpl.ID + "-" + viewer.ID,
			ProductID:    tpl.ProductID,
			ProductTitle: tpl.ProductTitle.In(lang),
			BuyerID:      buyerID,
			SellerID:     sellerID,
			CreatedAt:    tpl.CreatedAt,
		}

		msgs := make([]*entity.Message, 0, len(tpl.Messages))
		for _, mt := range tpl.Messages {
			m := &entity.Message{
				ID:             conv.ID + "-" + mt.ID,
				ConversationID: conv.ID,
				Content:        mt.Content.In(lang),
				Timestamp:      mt.Timestamp,
				Read:           mt.Read,
			}
			if mt.From == entity.RoleSeller {
				m.SenderID, m.ReceiverID = sellerID, buyerID
			} else {
				m.SenderID, m.ReceiverID = buyerID, sellerID
			}
			msgs = append(msgs, m)
		}
		if n := len(msgs); n > 0 {
			last := *msgs[n-1]
			conv.LastMessage = &last
		}

		threads = append(threads, Thread{Conversation: conv, Messages: msgs})
	}
	return threads
}
