package assistant

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/bissquit/aiops-garden/internal/pkg/ctxlog"
	"github.com/bissquit/aiops-garden/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
)

// Handler handles HTTP requests for the chat assistant.
type Handler struct {
	dispatcher *Dispatcher
}

// NewHandler creates a new chat handler.
func NewHandler(dispatcher *Dispatcher) *Handler {
	return &Handler{dispatcher: dispatcher}
}

// RegisterRoutes registers the chat route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.Chat)
}

// ChatRequest is the request body of POST /chat.
// Message is kept raw so that non-string values can be treated as empty.
type ChatRequest struct {
	Message json.RawMessage `json:"message"`
}

// Text returns the message as a string, or "" when it is missing or not a string.
func (r ChatRequest) Text() string {
	if len(r.Message) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(r.Message, &s); err != nil {
		return ""
	}
	return s
}

// MaxChatBodyBytes bounds the size of a POST /chat body.
const MaxChatBodyBytes = 64 << 10

// ChatResponse is the response body of POST /chat.
type ChatResponse struct {
	Response string `json:"response"`
}

// Chat handles POST /chat request.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	req, err := decodeChatRequest(w, r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.Error(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx := ctxlog.With(r.Context(), "component", "assistant")
	reply := h.dispatcher.Dispatch(ctx, req.Text())
	ctxlog.FromContext(ctx).Debug("chat intent dispatched", "intent", reply.Intent)

	httputil.JSON(w, http.StatusOK, ChatResponse{Response: reply.Text})
}

// decodeChatRequest reads exactly one JSON value from the body.
// Anything after it makes the body invalid.
func decodeChatRequest(w http.ResponseWriter, r *http.Request) (ChatRequest, error) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxChatBodyBytes))

	var req ChatRequest
	if err := dec.Decode(&req); err != nil {
		return ChatRequest{}, err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected data after json value")
		}
		return ChatRequest{}, err
	}
	return req, nil
}
