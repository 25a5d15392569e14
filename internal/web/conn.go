package web

import (
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/verte-zerg/typesprint/internal/generator"
	"github.com/verte-zerg/typesprint/internal/model"
	"github.com/verte-zerg/typesprint/internal/session"
	"github.com/verte-zerg/typesprint/internal/wordlist"
)

// visibleWords caps how many words a snapshot carries; the window starts a
// few words behind the cursor.
const (
	visibleWords = 30
	trailWords   = 5
)

// conn is the protocol state of one browser connection. It owns an engine
// and must only be used from the connection's loop goroutine.
type conn struct {
	engine   *session.Engine
	best     *session.MemoryBest
	validate *validator.Validate
	logger   *slog.Logger
	now      func() time.Time
}

func newConn(corpus wordlist.Corpus, sched session.Scheduler, validate *validator.Validate, logger *slog.Logger) *conn {
	best := session.NewMemoryBest(0)
	c := &conn{
		best:     best,
		validate: validate,
		logger:   logger,
		now:      time.Now,
	}
	c.engine = session.New(model.DefaultSettings(), session.Options{
		Supplier:  generator.New(corpus),
		Best:      best,
		Scheduler: sched,
		Logger:    logger,
	})
	return c
}

// handle applies one client frame and returns the reply.
func (c *conn) handle(data []byte) Snapshot {
	var msg ClientMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		c.logger.Debug("bad client frame", "error", err)
		return c.errorSnapshot("malformed message")
	}
	if err := c.validate.Struct(msg); err != nil {
		c.logger.Debug("invalid client message", "error", err)
		return c.errorSnapshot("invalid message")
	}
	switch msg.Event {
	case EventKey:
		c.engine.HandleKey(msg.Key)
	case EventReset:
		c.engine.Reset()
	case EventStop:
		c.engine.Stop()
	case EventSettings:
		c.engine.ApplySettings(msg.Settings.toModel())
	case EventHello:
		if msg.Best != nil {
			c.best.SaveBestWPM(int(*msg.Best))
		}
	}
	return c.snapshot()
}

func (c *conn) snapshot() Snapshot {
	st := c.engine.State()
	snap := Snapshot{
		Phase: c.engine.Phase().String(),
		State: StateView{
			WordIndex:     st.CurrentWordIndex,
			CharIndex:     st.CurrentCharIndex,
			Errors:        st.Errors,
			CorrectChars:  st.CorrectChars,
			TotalChars:    st.TotalChars,
			TimeRemaining: st.TimeRemaining,
			LiveWPM:       session.LiveWPM(st, c.now()),
		},
		Words:    wordMsgs(session.ProjectWindow(c.engine.Words(), st, trailWords, visibleWords)),
		Best:     c.best.LoadBestWPM(),
		Settings: settingsMsg(c.engine.Settings()),
	}
	if res, ok := c.engine.Results(); ok {
		snap.Results = &ResultsView{
			WPM:            res.WPM,
			Accuracy:       res.Accuracy,
			CorrectChars:   res.CorrectChars,
			IncorrectChars: res.IncorrectChars,
			TotalChars:     res.TotalChars,
			TimeTaken:      res.TimeTaken,
		}
	}
	return snap
}

func (c *conn) errorSnapshot(msg string) Snapshot {
	snap := c.snapshot()
	snap.Err = msg
	return snap
}

func (c *conn) close() {
	c.engine.Close()
}
