// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/sapienio/stakevault/api/events"
	"github.com/sapienio/stakevault/api/utils"
	"github.com/sapienio/stakevault/eventdb"
	"github.com/sapienio/stakevault/ledger"
	"github.com/sapienio/stakevault/log"
	"github.com/sapienio/stakevault/vault"
)

var logger = log.WithContext("pkg", "subscriptions")

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 7) / 10
)

type Subscriptions struct {
	feed         *ledger.Feed
	db           *eventdb.EventDB
	backlogLimit uint64
	upgrader     *websocket.Upgrader
	done         chan struct{}
	wg           sync.WaitGroup
}

// New creates the subscriptions API. Subscribers behind the in memory feed
// catch up from db, at most backlogLimit events per read.
func New(feed *ledger.Feed, db *eventdb.EventDB, allowedOrigins []string, backlogLimit uint64) *Subscriptions {
	return &Subscriptions{
		feed:         feed,
		db:           db,
		backlogLimit: backlogLimit,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				origin = strings.ToLower(origin)
				for _, allowed := range allowedOrigins {
					if allowed == "*" || allowed == origin {
						return true
					}
				}
				return false
			},
		},
		done: make(chan struct{}),
	}
}

type subscription struct {
	account *vault.Address
	kinds   []string
	cursor  uint64
}

func (sub *subscription) match(ev *eventdb.Event) bool {
	if sub.account != nil && *sub.account != ev.Account {
		return false
	}
	return len(sub.kinds) == 0 || slices.Contains(sub.kinds, ev.Kind)
}

func (s *Subscriptions) parseSubscription(req *http.Request) (*subscription, error) {
	query := req.URL.Query()
	sub := &subscription{}

	if v := query.Get("account"); v != "" {
		addr, err := vault.ParseAddress(v)
		if err != nil {
			return nil, utils.BadRequest(errors.WithMessage(err, "account"))
		}
		sub.account = &addr
	}
	if v := query.Get("kind"); v != "" {
		for _, kind := range strings.Split(v, ",") {
			if kind = strings.TrimSpace(kind); kind != "" {
				sub.kinds = append(sub.kinds, kind)
			}
		}
	}

	last := s.feed.LastSeq()
	pos, err := utils.Uint64Query(req, "pos", last)
	if err != nil {
		return nil, err
	}
	if pos > last {
		return nil, utils.BadRequest(errors.New("pos: ahead of the last event"))
	}
	if _, missed := s.feed.Since(pos); missed && s.db == nil {
		return nil, utils.Forbidden(errors.New("pos: too old, event log is disabled"))
	}
	sub.cursor = pos
	return sub, nil
}

// next returns the events after cursor, reading the event log when the feed no longer holds them.
func (s *Subscriptions) next(ctx context.Context, cursor uint64) ([]*eventdb.Event, error) {
	evs, missed := s.feed.Since(cursor)
	if !missed {
		return evs, nil
	}
	if s.db == nil {
		return nil, errors.New("subscriber fell behind the event feed")
	}
	return s.db.Since(ctx, cursor, s.backlogLimit)
}

func (s *Subscriptions) handleSubscribeEvents(w http.ResponseWriter, req *http.Request) error {
	sub, err := s.parseSubscription(req)
	if err != nil {
		return err
	}

	conn, err := s.upgrader.Upgrade(w, req, nil)
	// since the conn is hijacked here, no error should be returned in lines below
	if err != nil {
		logger.Debug("upgrade to websocket", "err", err)
		return nil
	}

	s.wg.Add(1)
	defer s.wg.Done()
	defer conn.Close()

	if err := s.pipe(req.Context(), conn, sub); err != nil {
		logger.Debug("subscription closed", "err", err)
		msg := websocket.FormatCloseMessage(websocket.CloseInternalServerErr, err.Error())
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		return nil
	}
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
	return nil
}

func (s *Subscriptions) pipe(ctx context.Context, conn *websocket.Conn, sub *subscription) error {
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		waiter := s.feed.NewWaiter()
		evs, err := s.next(ctx, sub.cursor)
		if err != nil {
			return err
		}
		for _, ev := range evs {
			sub.cursor = ev.Seq
			if !sub.match(ev) {
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(events.ConvertEvent(ev)); err != nil {
				return err
			}
		}
		if len(evs) > 0 {
			continue
		}

		select {
		case <-waiter.C():
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return err
			}
		case <-closed:
			return nil
		case <-ctx.Done():
			return nil
		case <-s.done:
			return nil
		}
	}
}

// Close terminates every open subscription and waits for them to return.
func (s *Subscriptions) Close() {
	close(s.done)
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/events").
		Methods(http.MethodGet).
		Name("WS /subscriptions/events").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubscribeEvents))
}
