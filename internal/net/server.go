package net

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	tomb "gopkg.in/tomb.v2"

	"crossbook/internal/common"
	"crossbook/internal/engine"
	"crossbook/internal/worker"
)

const (
	maxRecvSize        = 4 * 1024
	defaultNWorkers    = 10
	defaultConnTimeout = time.Second
)

// clientSession tracks one connected TCP client by owner name.
type clientSession struct {
	conn net.Conn
}

// orderOwner remembers which client session submitted an order, and the
// correlation id that request was tagged with, so a later trade or
// rejection can be routed back to the right connection.
type orderOwner struct {
	owner         string
	correlationID uuid.UUID
}

// Server is the TCP front end. It implements engine.Reporter so the engine
// can push execution reports straight back to connected clients.
type Server struct {
	address string
	port    int
	engine  *engine.Engine
	pool    worker.Pool
	logger  zerolog.Logger

	sessionsMu sync.Mutex
	sessions   map[string]clientSession

	ownersMu sync.Mutex
	owners   map[common.OrderID]orderOwner
}

// New constructs a Server bound to address:port, dispatching accepted
// orders into eng.
func New(address string, port int, eng *engine.Engine, logger zerolog.Logger) *Server {
	return &Server{
		address:  address,
		port:     port,
		engine:   eng,
		pool:     worker.New(defaultNWorkers, logger),
		logger:   logger,
		sessions: make(map[string]clientSession),
		owners:   make(map[common.OrderID]orderOwner),
	}
}

// Run accepts connections until ctx is cancelled, dispatching each to the
// worker pool for request handling.
func (s *Server) Run(ctx context.Context) error {
	t, ctx := tomb.WithContext(ctx)

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", fmt.Sprintf("%s:%d", s.address, s.port))
	if err != nil {
		return fmt.Errorf("net: listen: %w", err)
	}
	defer func() {
		if cerr := listener.Close(); cerr != nil {
			s.logger.Error().Err(cerr).Msg("error closing listener")
		}
	}()

	t.Go(func() error {
		s.pool.Setup(t, s.handleConnection)
		return nil
	})

	s.logger.Info().Str("address", s.address).Int("port", s.port).Msg("server listening")

	for {
		select {
		case <-ctx.Done():
			return t.Wait()
		default:
			conn, err := listener.Accept()
			if err != nil {
				select {
				case <-ctx.Done():
					return t.Wait()
				default:
					s.logger.Error().Err(err).Msg("error accepting client")
					continue
				}
			}
			s.logger.Info().Str("remote", conn.RemoteAddr().String()).Msg("client connected")
			s.pool.AddTask(conn)
		}
	}
}

// handleConnection reads one message, dispatches it, and re-queues the
// connection for its next message. Errors reading/parsing close the
// connection but are not fatal to the worker.
func (s *Server) handleConnection(t *tomb.Tomb, task any) error {
	conn, ok := task.(net.Conn)
	if !ok {
		return fmt.Errorf("net: unexpected task type %T", task)
	}

	if err := conn.SetReadDeadline(time.Now().Add(defaultConnTimeout)); err != nil {
		s.logger.Error().Err(err).Msg("failed to set read deadline")
		_ = conn.Close()
		return nil
	}

	buf := make([]byte, maxRecvSize)
	n, err := conn.Read(buf)
	if err != nil {
		_ = conn.Close()
		return nil
	}

	message, err := parseMessage(buf[:n])
	if err != nil {
		s.logger.Error().Err(err).Msg("error parsing message")
		_ = conn.Close()
		return nil
	}

	s.dispatch(conn, message)
	s.pool.AddTask(conn)
	return nil
}

func (s *Server) dispatch(conn net.Conn, message Message) {
	switch m := message.(type) {
	case NewOrderMessage:
		s.handleNewOrder(conn, m)
	case CancelOrderMessage:
		s.engine.Cancel(m.OrderID)
	case ModifyOrderMessage:
		s.engine.Modify(common.ModifyRequest{
			OrderID:  m.OrderID,
			Side:     m.Side,
			Price:    m.Price,
			Quantity: m.Quantity,
		})
	}
}

func (s *Server) handleNewOrder(conn net.Conn, m NewOrderMessage) {
	s.addSession(m.Owner, conn)

	correlationID := uuid.New()
	s.ownersMu.Lock()
	s.owners[m.OrderID] = orderOwner{owner: m.Owner, correlationID: correlationID}
	s.ownersMu.Unlock()

	var order *common.Order
	if m.OrderType == common.Market {
		order = common.NewMarket(m.OrderID, m.Side, m.Quantity)
	} else {
		order = common.New(m.OrderID, m.OrderType, m.Side, m.Price, m.Quantity)
	}

	s.engine.Submit(order)
}

// ReportTrade implements engine.Reporter. Each trade leg is routed to the
// session that submitted that leg's order, if it is still connected.
func (s *Server) ReportTrade(trade common.Trade) error {
	s.sendLegReport(trade.BidTrade, common.Buy)
	s.sendLegReport(trade.AskTrade, common.Sell)
	return nil
}

func (s *Server) sendLegReport(leg common.TradeInfo, side common.Side) {
	owner, ok := s.lookupOwner(leg.OrderID)
	if !ok {
		return
	}
	s.send(owner.owner, Report{
		MessageType:   ExecutionReport,
		CorrelationID: owner.correlationID,
		OrderID:       leg.OrderID,
		Side:          side,
		Price:         leg.Price,
		Quantity:      leg.Quantity,
	})
}

// ReportRejected implements engine.Reporter.
func (s *Server) ReportRejected(order *common.Order) error {
	owner, ok := s.lookupOwner(order.ID())
	if !ok {
		return nil
	}
	s.send(owner.owner, Report{
		MessageType:   ErrorReport,
		CorrelationID: owner.correlationID,
		OrderID:       order.ID(),
		Side:          order.Side(),
		Err:           "order rejected",
	})
	return nil
}

func (s *Server) lookupOwner(id common.OrderID) (orderOwner, bool) {
	s.ownersMu.Lock()
	defer s.ownersMu.Unlock()
	owner, ok := s.owners[id]
	return owner, ok
}

func (s *Server) send(owner string, report Report) {
	s.sessionsMu.Lock()
	session, ok := s.sessions[owner]
	s.sessionsMu.Unlock()
	if !ok {
		return
	}
	if _, err := session.conn.Write(report.Serialize()); err != nil {
		s.logger.Error().Err(err).Str("owner", owner).Msg("failed to deliver report")
		s.removeSession(owner)
	}
}

func (s *Server) addSession(owner string, conn net.Conn) {
	s.sessionsMu.Lock()
	defer s.sessionsMu.Unlock()
	s.sessions[owner] = clientSession{conn: conn}
}

func (s *Server) removeSession(owner string) {
	s.sessionsMu.Lock()
	defer s.sessionsMu.Unlock()
	delete(s.sessions, owner)
}
