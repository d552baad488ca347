package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"nft-escrow-broker/config"
	"nft-escrow-broker/internal/core/domain"
	"nft-escrow-broker/internal/core/ports"
	"nft-escrow-broker/internal/observability"

	"github.com/rs/zerolog"
	"nhooyr.io/websocket"
)

const (
	wsWriteTimeout = 10 * time.Second
	// txPollInterval paces the final-validation polling after a submit.
	txPollInterval = time.Second
	txChannelSize  = 256
)

// Client maintains the single live subscription to the broker account and
// multiplexes request/response commands over the same connection. It
// implements ports.LedgerStream and ports.LedgerSubmitter.
type Client struct {
	cfg     config.LedgerConfig
	broker  string // Broker account address to subscribe to
	log     zerolog.Logger
	metrics *observability.Metrics

	mu      sync.Mutex
	conn    *websocket.Conn
	pending map[uint64]chan rpcResponse
	nextID  uint64

	txCh chan domain.TransactionEnvelope
}

type rpcRequest struct {
	ID          uint64           `json:"id"`
	Command     string           `json:"command"`
	Accounts    []string         `json:"accounts,omitempty"`
	Account     string           `json:"account,omitempty"`
	TxJSON      *domain.LedgerTx `json:"tx_json,omitempty"`
	Transaction string           `json:"transaction,omitempty"`
}

type rpcResponse struct {
	ID           uint64          `json:"id"`
	Status       string          `json:"status"`
	ErrorMessage string          `json:"error,omitempty"`
	Result       json.RawMessage `json:"result,omitempty"`
}

// NewClient creates a ledger client for one broker account. Run must be
// called before events flow or submissions succeed.
func NewClient(cfg config.LedgerConfig, brokerAddress string, metrics *observability.Metrics, log zerolog.Logger) *Client {
	return &Client{
		cfg:     cfg,
		broker:  brokerAddress,
		log:     log.With().Str("component", "ledger").Logger(),
		metrics: metrics,
		pending: make(map[uint64]chan rpcResponse),
		txCh:    make(chan domain.TransactionEnvelope, txChannelSize),
	}
}

// Transactions returns the bounded, ordered stream of raw transaction
// envelopes observed on the subscription.
func (c *Client) Transactions() <-chan domain.TransactionEnvelope {
	return c.txCh
}

// Run drives the connection lifecycle until ctx is cancelled: dial the
// current endpoint, subscribe, pump messages, and on disconnect rotate to
// the next endpoint after an exponential backoff. Connection errors are
// retried indefinitely; there is no fatal failure short of cancellation.
func (c *Client) Run(ctx context.Context) {
	if !c.cfg.Enabled {
		c.log.Info().Msg("ledger connection disabled by configuration")
		return
	}
	if len(c.cfg.Endpoints) == 0 {
		c.log.Error().Msg("no ledger endpoints configured")
		return
	}

	bo := newReconnectBackoff()
	endpoint := 0
	for {
		if ctx.Err() != nil {
			return
		}
		url := c.cfg.Endpoints[endpoint%len(c.cfg.Endpoints)]
		conn, err := c.dial(ctx, url)
		if err != nil {
			c.metrics.LedgerReconnect()
			endpoint++
			wait := bo.Next()
			c.log.Warn().Err(err).Str("endpoint", url).Dur("retry_in", wait).Msg("ledger dial failed")
			if !sleep(ctx, wait) {
				return
			}
			continue
		}

		c.setConn(conn)
		if err := c.subscribe(ctx); err != nil {
			c.teardown(conn, "subscribe failed")
			c.metrics.LedgerReconnect()
			endpoint++
			wait := bo.Next()
			c.log.Warn().Err(err).Str("endpoint", url).Dur("retry_in", wait).Msg("ledger subscribe failed")
			if !sleep(ctx, wait) {
				return
			}
			continue
		}

		bo.Reset()
		c.log.Info().Str("endpoint", url).Str("account", c.broker).Msg("ledger connected and subscribed")

		pingCtx, stopPing := context.WithCancel(ctx)
		go c.pingLoop(pingCtx, conn)

		err = c.readLoop(ctx, conn)
		stopPing()
		c.teardown(conn, "connection closed")
		if ctx.Err() != nil {
			return
		}

		c.metrics.LedgerReconnect()
		endpoint++
		wait := bo.Next()
		c.log.Warn().Err(err).Str("endpoint", url).Dur("retry_in", wait).Msg("ledger disconnected")
		if !sleep(ctx, wait) {
			return
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

func (c *Client) dial(ctx context.Context, url string) (*websocket.Conn, error) {
	dialCtx := ctx
	if c.cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, c.cfg.ConnectTimeout)
		defer cancel()
	}
	conn, _, err := websocket.Dial(dialCtx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", url, err)
	}
	return conn, nil
}

func (c *Client) setConn(conn *websocket.Conn) {
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
}

// teardown closes the connection and fails every in-flight request so
// callers blocked in SubmitAndWait surface a transport error promptly.
func (c *Client) teardown(conn *websocket.Conn, reason string) {
	_ = conn.Close(websocket.StatusNormalClosure, reason)
	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
	}
	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
	c.mu.Unlock()
}

func (c *Client) subscribe(ctx context.Context) error {
	_, err := c.request(ctx, rpcRequest{Command: "subscribe", Accounts: []string{c.broker}})
	return err
}

// pingLoop probes liveness at a fixed interval. Probes are fire-and-forget:
// a failure is logged, and the read loop's error is what actually triggers
// reconnection.
func (c *Client) pingLoop(ctx context.Context, conn *websocket.Conn) {
	interval := c.cfg.PingInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
			if err := conn.Ping(pingCtx); err != nil {
				c.log.Warn().Err(err).Msg("ledger liveness probe failed")
			}
			cancel()
		}
	}
}

// readLoop pumps inbound messages until the connection errors. Stream
// events go to the transaction channel in arrival order; responses are
// routed to their waiting request.
func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) error {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}
		c.dispatch(ctx, data)
	}
}

func (c *Client) dispatch(ctx context.Context, data []byte) {
	var head struct {
		Type string  `json:"type"`
		ID   *uint64 `json:"id"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		c.log.Warn().Err(err).Msg("unparseable ledger message dropped")
		return
	}

	if head.Type == "transaction" {
		var env domain.TransactionEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			c.log.Warn().Err(err).Msg("unparseable transaction envelope dropped")
			return
		}
		select {
		case c.txCh <- env:
		case <-ctx.Done():
		}
		return
	}

	if head.ID != nil {
		var resp rpcResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			c.log.Warn().Err(err).Msg("unparseable ledger response dropped")
			return
		}
		c.mu.Lock()
		ch, ok := c.pending[resp.ID]
		if ok {
			delete(c.pending, resp.ID)
		}
		c.mu.Unlock()
		if ok {
			ch <- resp
			close(ch)
		}
	}
}

// request sends one command and waits for its response. Returns an error if
// the connection drops while waiting.
func (c *Client) request(ctx context.Context, req rpcRequest) (json.RawMessage, error) {
	c.mu.Lock()
	conn := c.conn
	if conn == nil {
		c.mu.Unlock()
		return nil, fmt.Errorf("ledger not connected")
	}
	c.nextID++
	req.ID = c.nextID
	ch := make(chan rpcResponse, 1)
	c.pending[req.ID] = ch
	c.mu.Unlock()

	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshaling %s request: %w", req.Command, err)
	}
	writeCtx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
	err = conn.Write(writeCtx, websocket.MessageText, data)
	cancel()
	if err != nil {
		c.mu.Lock()
		delete(c.pending, req.ID)
		c.mu.Unlock()
		return nil, fmt.Errorf("writing %s request: %w", req.Command, err)
	}

	select {
	case <-ctx.Done():
		c.mu.Lock()
		delete(c.pending, req.ID)
		c.mu.Unlock()
		return nil, ctx.Err()
	case resp, ok := <-ch:
		if !ok {
			return nil, fmt.Errorf("connection lost awaiting %s response", req.Command)
		}
		if resp.Status != "success" {
			return nil, fmt.Errorf("%s failed: %s", req.Command, resp.ErrorMessage)
		}
		return resp.Result, nil
	}
}

// accountSequence fetches the account's next transaction sequence number.
func (c *Client) accountSequence(ctx context.Context, address string) (uint32, error) {
	result, err := c.request(ctx, rpcRequest{Command: "account_info", Account: address})
	if err != nil {
		return 0, err
	}
	var parsed struct {
		AccountData struct {
			Sequence uint32 `json:"Sequence"`
		} `json:"account_data"`
	}
	if err := json.Unmarshal(result, &parsed); err != nil {
		return 0, fmt.Errorf("parsing account_info result: %w", err)
	}
	return parsed.AccountData.Sequence, nil
}

// SubmitAndWait autofills the sequence, signs, submits, and polls until the
// ledger reports the transaction finally validated. The wait is bounded
// only by ctx. A non-success final outcome is returned as an error.
func (c *Client) SubmitAndWait(ctx context.Context, tx *domain.LedgerTx, signer ports.Signer) (*domain.SubmitResult, error) {
	seq, err := c.accountSequence(ctx, signer.Address())
	if err != nil {
		c.metrics.LedgerSubmission(tx.TransactionType, "error")
		return nil, fmt.Errorf("fetching sequence for %s: %w", signer.Address(), err)
	}
	tx.Sequence = seq
	if tx.Fee == "" {
		tx.Fee = "12"
	}

	hash, err := signTx(tx, signer)
	if err != nil {
		c.metrics.LedgerSubmission(tx.TransactionType, "error")
		return nil, err
	}

	result, err := c.request(ctx, rpcRequest{Command: "submit", TxJSON: tx})
	if err != nil {
		c.metrics.LedgerSubmission(tx.TransactionType, "error")
		return nil, fmt.Errorf("submitting %s: %w", tx.TransactionType, err)
	}
	var prelim struct {
		EngineResult string `json:"engine_result"`
	}
	if err := json.Unmarshal(result, &prelim); err != nil {
		c.metrics.LedgerSubmission(tx.TransactionType, "error")
		return nil, fmt.Errorf("parsing submit result: %w", err)
	}
	if prelim.EngineResult != domain.ResultSuccess {
		c.metrics.LedgerSubmission(tx.TransactionType, "rejected")
		return nil, fmt.Errorf("%s rejected: %s", tx.TransactionType, prelim.EngineResult)
	}

	final, err := c.waitValidated(ctx, hash)
	if err != nil {
		c.metrics.LedgerSubmission(tx.TransactionType, "error")
		return nil, err
	}
	if final.Meta == nil || final.Meta.TransactionResult != domain.ResultSuccess {
		c.metrics.LedgerSubmission(tx.TransactionType, "failed")
		outcome := "missing metadata"
		if final.Meta != nil {
			outcome = final.Meta.TransactionResult
		}
		return nil, fmt.Errorf("%s not successful after validation: %s", tx.TransactionType, outcome)
	}

	c.metrics.LedgerSubmission(tx.TransactionType, "validated")
	return &domain.SubmitResult{Hash: hash, Result: final.Meta.TransactionResult, Meta: final.Meta}, nil
}

type txStatus struct {
	Validated bool           `json:"validated"`
	Meta      *domain.TxMeta `json:"meta"`
}

func (c *Client) waitValidated(ctx context.Context, hash string) (*txStatus, error) {
	for {
		result, err := c.request(ctx, rpcRequest{Command: "tx", Transaction: hash})
		if err != nil {
			return nil, fmt.Errorf("polling tx %s: %w", hash, err)
		}
		var parsed txStatus
		if err := json.Unmarshal(result, &parsed); err != nil {
			return nil, fmt.Errorf("parsing tx result: %w", err)
		}
		if parsed.Validated {
			return &parsed, nil
		}
		if !sleep(ctx, txPollInterval) {
			return nil, ctx.Err()
		}
	}
}
