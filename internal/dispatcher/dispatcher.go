// Package dispatcher binds demo actions to SDK calls. Every operation logs
// its attempt and outcome, updates the views it owns and swallows its own
// errors.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kruzic-io/kruzic/internal/models"
	"github.com/kruzic-io/kruzic/internal/sdk"
)

// Status captions of the connectivity indicator.
const (
	StatusConnected = "Connected to SDK"
	StatusError     = "Error"
)

// View receives every UI update the dispatcher produces. Implementations
// must be safe for use from several goroutines.
type View interface {
	ShowUser(models.UserView)
	ShowStatus(models.Status)
	// ShowData replaces the data list. An empty list means "show the
	// placeholder".
	ShowData([]models.DataItem)
	// ShowValue writes a fetched value back into the value input.
	ShowValue(string)
	// AppendLog adds an entry to the top of the log panel.
	AppendLog(models.LogEntry)
	ClearLog()
}

// Session is the dispatcher's context: the SDK client, the view and the
// clock for one UI session. Operations on a Session may run concurrently.
type Session struct {
	client sdk.Client
	view   View
	now    func() time.Time
	logger *zap.Logger

	logMu sync.Mutex
}

// Option configures a Session.
type Option func(*Session)

// WithClock overrides the clock used for log timestamps and test keys.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithLogger mirrors every log line to logger at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// New creates a Session.
func New(client sdk.Client, view View, opts ...Option) *Session {
	s := &Session{
		client: client,
		view:   view,
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) log(kind models.LogKind, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	s.logMu.Lock()
	s.view.AppendLog(models.NewLogEntry(s.now(), kind, msg))
	s.logMu.Unlock()

	s.logger.Debug(msg, zap.String("kind", string(kind)))
}

func (s *Session) fail(err error) {
	s.log(models.LogError, "%s", errorText(err))
}

// errorText is the log line for err.
func errorText(err error) string {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Error()
	}
	if errors.Is(err, ErrKeyRequired) {
		return "Key is required"
	}
	return err.Error()
}

func encode(v any) string {
	return models.EncodeValue(v)
}

// Init performs the ready handshake: notify the platform without waiting,
// then refresh the user and the data once each.
func (s *Session) Init(ctx context.Context) {
	s.log(models.LogCall, "Initializing SDK...")
	s.client.Ready()
	s.log(models.LogSuccess, "sdk.ready() called")

	s.RefreshUser(ctx)
	s.RefreshData(ctx)
}

// RefreshUser queries the signed-in flag, user id and details in order.
// The indicator turns ok only when all three succeed.
func (s *Session) RefreshUser(ctx context.Context) {
	s.log(models.LogCall, "Loading user info...")

	var user models.UserView
	signedIn, err := s.client.IsSignedIn(ctx)
	if err != nil {
		s.userFailed(remote("isSignedIn", err))
		return
	}
	user.SignedIn = signedIn
	s.view.ShowUser(user)
	s.log(models.LogSuccess, "isSignedIn() = %t", signedIn)

	id, err := s.client.GetUserID(ctx)
	if err != nil {
		s.userFailed(remote("getUserId", err))
		return
	}
	user.UserID = id
	s.view.ShowUser(user)
	s.log(models.LogSuccess, "getUserId() = %s", user.UserIDText())

	details, err := s.client.GetUserDetails(ctx)
	if err != nil {
		s.userFailed(remote("getUserDetails", err))
		return
	}
	if details != nil {
		name := details.Name
		user.DisplayName = &name
	}
	s.view.ShowUser(user)
	s.log(models.LogSuccess, "getUserDetails() = %s", encode(details))

	s.view.ShowStatus(models.Status{Indicator: models.IndicatorOK, Text: StatusConnected})
}

func (s *Session) userFailed(err error) {
	s.fail(err)
	s.view.ShowStatus(models.Status{Indicator: models.IndicatorError, Text: StatusError})
}

// RefreshData lists the keys and fetches each value in turn. The view is
// only replaced once every value was read; on failure it keeps the
// previous list.
func (s *Session) RefreshData(ctx context.Context) {
	keys, err := s.client.ListData(ctx)
	if err != nil {
		s.fail(remote("listData", err))
		return
	}
	s.log(models.LogSuccess, "listData() = [%s]", strings.Join(keys, ", "))

	items := make([]models.DataItem, 0, len(keys))
	for _, key := range keys {
		value, err := s.client.GetData(ctx, key)
		if err != nil {
			s.fail(remote("listData", err))
			return
		}
		items = append(items, models.DataItem{Key: key, Value: value})
	}
	s.view.ShowData(items)
}

// SetData stores rawValue under key. rawValue is parsed as JSON when it
// can be, and stored as the trimmed string otherwise.
func (s *Session) SetData(ctx context.Context, key, rawValue string) {
	key = strings.TrimSpace(key)
	if key == "" {
		s.fail(ErrKeyRequired)
		return
	}
	value := ParseValue(rawValue)

	s.log(models.LogCall, "setData(%q, %s)", key, encode(value))
	if err := s.client.SetData(ctx, key, value); err != nil {
		s.fail(remote("setData", err))
		return
	}
	s.log(models.LogSuccess, "Saved: %s", key)
	s.RefreshData(ctx)
}

// GetData fetches key and, when it exists, writes it into the value input.
func (s *Session) GetData(ctx context.Context, key string) {
	key = strings.TrimSpace(key)
	if key == "" {
		s.fail(ErrKeyRequired)
		return
	}

	s.log(models.LogCall, "getData(%q)", key)
	value, err := s.client.GetData(ctx, key)
	if err != nil {
		s.fail(remote("getData", err))
		return
	}
	s.log(models.LogSuccess, "getData(%q) = %s", key, encode(value))
	if value != nil {
		s.view.ShowValue(FormatValue(value))
	}
}

// DeleteData removes key and refreshes the data list.
func (s *Session) DeleteData(ctx context.Context, key string) {
	key = strings.TrimSpace(key)
	if key == "" {
		s.fail(ErrKeyRequired)
		return
	}

	s.log(models.LogCall, "deleteData(%q)", key)
	if err := s.client.DeleteData(ctx, key); err != nil {
		s.fail(remote("deleteData", err))
		return
	}
	s.log(models.LogSuccess, "Deleted: %s", key)
	s.RefreshData(ctx)
}

// DeleteItem is the delete control of one data row: it removes exactly
// that key and refreshes the list.
func (s *Session) DeleteItem(ctx context.Context, key string) {
	if err := s.client.DeleteData(ctx, key); err != nil {
		s.fail(remote("deleteData", err))
		return
	}
	s.log(models.LogSuccess, "Deleted key %q", key)
	s.RefreshData(ctx)
}

// ClearLog empties the log panel.
func (s *Session) ClearLog() {
	s.logMu.Lock()
	defer s.logMu.Unlock()
	s.view.ClearLog()
}
