package chat

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mahnouor1/streetly/app/observability/metrics"
	"github.com/mahnouor1/streetly/internal/api/agent"
	"github.com/mahnouor1/streetly/internal/types"
)

const failureReply = "⚠️ Failed to get response. Please try again."

// Conversation owns one session's ordered message list and the typing
// indicator lifecycle. Overlapping sends are allowed; each in-flight send
// carries its own placeholder/response pair and appends are mutex-ordered.
type Conversation struct {
	mu        sync.Mutex
	logger    *slog.Logger
	agent     agent.Service
	city      string
	messages  []types.ChatMessage
	nextOrder int
	typing    int
	inFlight  int
}

func NewConversation(agentSvc agent.Service, logger *slog.Logger) *Conversation {
	return &Conversation{
		logger: logger,
		agent:  agentSvc,
	}
}

// SendMessage runs one full send cycle: append the user message, show a
// typing placeholder, call the agent, then replace the placeholder with
// exactly one assistant-or-system message. Empty or whitespace-only input is
// a no-op and never reaches the adapter. Returns the appended reply, or nil
// for a no-op.
func (c *Conversation) SendMessage(ctx context.Context, text string) *types.ChatMessage {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	c.mu.Lock()
	c.append(types.RoleUser, text)
	c.typing++
	c.inFlight++
	city := c.city
	c.mu.Unlock()

	if m := metrics.Get(); m != nil {
		m.ChatSendsTotal.Add(ctx, 1)
	}

	// The adapter call is the suspension point; the lock is not held here so
	// overlapping sends can proceed.
	reply, err := c.agent.GetAgentResponse(ctx, text, city)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.typing--
	c.inFlight--

	var msg *types.ChatMessage
	if err != nil {
		c.logger.WarnContext(ctx, "Agent call did not settle cleanly", slog.Any("error", err))
		msg = c.append(types.RoleSystem, failureReply)
	} else {
		msg = c.append(types.RoleAssistant, reply)
	}
	return msg
}

// Reset clears the whole message sequence and seeds a welcome message
// addressed to the newly selected city.
func (c *Conversation) Reset(city string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.city = city
	c.messages = nil
	c.nextOrder = 0
	c.append(types.RoleAssistant, "Welcome to "+city+"! How can I help you today?")
}

// Messages returns a copy of the ordered message list.
func (c *Conversation) Messages() []types.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]types.ChatMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

// State reports idle unless at least one send is awaiting its response.
func (c *Conversation) State() types.ChatState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight > 0 {
		return types.ChatAwaitingResponse
	}
	return types.ChatIdle
}

// TypingIndicators reports how many typing placeholders are visible.
func (c *Conversation) TypingIndicators() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.typing
}

// append must be called with the lock held.
func (c *Conversation) append(role types.MessageRole, text string) *types.ChatMessage {
	msg := types.ChatMessage{
		ID:        uuid.New(),
		Role:      role,
		Text:      text,
		Order:     c.nextOrder,
		CreatedAt: time.Now(),
	}
	c.nextOrder++
	c.messages = append(c.messages, msg)
	return &msg
}
