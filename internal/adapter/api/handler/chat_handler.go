package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	"marketcore/internal/domain/entity"
	"marketcore/internal/usecase"
	"marketcore/pkg/errors"
	"marketcore/pkg/locale"
	"marketcore/pkg/response"
)

type ChatHandler struct {
	conversationUseCase *usecase.ConversationUseCase
	chatUseCase         *usecase.ChatUseCase
	loc                 Localization
	now                 func() time.Time
}

func NewChatHandler(conversationUseCase *usecase.ConversationUseCase, chatUseCase *usecase.ChatUseCase, loc Localization) *ChatHandler {
	return &ChatHandler{
		conversationUseCase: conversationUseCase,
		chatUseCase:         chatUseCase,
		loc:                 loc,
		now:                 time.Now,
	}
}

type sendMessageRequest struct {
	Content string `json:"content" validate:"max=4000"`
}

type conversationResponse struct {
	*entity.Conversation
	OtherPartyID   string      `json:"other_party_id"`
	OtherPartyRole entity.Role `json:"other_party_role"`
}

type dayGroupResponse struct {
	Label    string            `json:"label"`
	Date     string            `json:"date"`
	Messages []*entity.Message `json:"messages"`
}

func presentConversation(conv *entity.Conversation, viewerID string) (conversationResponse, error) {
	other, err := usecase.OtherParty(conv, viewerID)
	if err != nil {
		return conversationResponse{}, err
	}
	role := entity.RoleSeller
	if other == conv.BuyerID {
		role = entity.RoleBuyer
	}
	return conversationResponse{Conversation: conv, OtherPartyID: other, OtherPartyRole: role}, nil
}

func location(c echo.Context) (*time.Location, error) {
	tz := c.QueryParam("tz")
	if tz == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, errors.BadRequest("Unknown time zone", err)
	}
	return loc, nil
}

// GetConversations lists the viewer's conversations, most recent first.
func (h *ChatHandler) GetConversations(c echo.Context) error {
	user, err := viewer(c)
	if err != nil {
		return response.Error(c, err)
	}
	ctx := c.Request().Context()

	convs, err := h.conversationUseCase.Open(ctx, user, h.loc.language(c))
	if err != nil {
		return response.Error(c, err)
	}
	if q := c.QueryParam("q"); q != "" {
		if convs, err = h.conversationUseCase.Search(ctx, user.ID, q); err != nil {
			return response.Error(c, err)
		}
	}

	out := make([]conversationResponse, 0, len(convs))
	for _, conv := range convs {
		item, err := presentConversation(conv, user.ID)
		if err != nil {
			return response.Error(c, err)
		}
		out = append(out, item)
	}
	return response.Success(c, out)
}

// GetMessages returns the conversation history grouped by calendar day in
// the time zone given by the tz query parameter.
func (h *ChatHandler) GetMessages(c echo.Context) error {
	user, err := viewer(c)
	if err != nil {
		return response.Error(c, err)
	}
	loc, err := location(c)
	if err != nil {
		return response.Error(c, err)
	}
	ctx := c.Request().Context()

	conv, err := h.conversationUseCase.Get(ctx, user.ID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	groups, err := h.chatUseCase.HistoryByDay(ctx, conv.ID, loc)
	if err != nil {
		return response.Error(c, err)
	}

	lang := h.loc.language(c)
	now := h.now().In(loc)
	out := make([]dayGroupResponse, len(groups))
	for i, g := range groups {
		out[i] = dayGroupResponse{
			Label:    locale.DayLabel(g.Date, now, lang),
			Date:     g.Date.Format("2006-01-02"),
			Messages: g.Messages,
		}
	}
	return response.Success(c, out)
}

// SendMessage appends a message from the viewer. Blank content is accepted
// and answered with 204.
func (h *ChatHandler) SendMessage(c echo.Context) error {
	user, err := viewer(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	ctx := c.Request().Context()
	conv, err := h.conversationUseCase.Get(ctx, user.ID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	message, err := h.chatUseCase.Send(ctx, conv, user.ID, req.Content)
	if err != nil {
		return response.Error(c, err)
	}
	if message == nil {
		return response.NoContent(c)
	}
	return response.Created(c, message)
}

func (h *ChatHandler) MarkMessageRead(c echo.Context) error {
	user, err := viewer(c)
	if err != nil {
		return response.Error(c, err)
	}
	ctx := c.Request().Context()

	conv, err := h.conversationUseCase.Get(ctx, user.ID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	message, err := h.chatUseCase.MarkRead(ctx, conv.ID, c.Param("messageId"), user.ID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, message)
}

func (h *ChatHandler) MarkConversationRead(c echo.Context) error {
	user, err := viewer(c)
	if err != nil {
		return response.Error(c, err)
	}
	ctx := c.Request().Context()

	conv, err := h.conversationUseCase.Get(ctx, user.ID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	marked, err := h.chatUseCase.MarkConversationRead(ctx, conv.ID, user.ID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]int{"marked": marked})
}
