// Package ton implements chain.Ledger on The Open Network using tonutils-go.
package ton

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/liteclient"
	"github.com/xssnick/tonutils-go/tlb"
	"github.com/xssnick/tonutils-go/ton"
	"github.com/xssnick/tonutils-go/ton/dns"
	"github.com/xssnick/tonutils-go/ton/wallet"

	"github.com/mrz1836/beacon/internal/chain"
	"github.com/mrz1836/beacon/internal/keypair"
	"github.com/mrz1836/beacon/internal/metrics"
	beaconerr "github.com/mrz1836/beacon/pkg/errors"
)

// Network names understood by Options.Network.
const (
	Mainnet = "mainnet"
	Testnet = "testnet"
)

// walletRecordKey labels the wallet pointer of a DNS record.
const walletRecordKey = "wallet"

// LogWriter provides logging capabilities.
type LogWriter interface {
	Debug(format string, args ...any)
}

// Options configures how a Client connects.
type Options struct {
	// Network selects proof checking and address formatting.
	Network string
	// LiteServerHost, LiteServerPort and LiteServerKey pin a single
	// liteserver. When empty the servers listed at the node URL are used.
	LiteServerHost string
	LiteServerPort int
	LiteServerKey  string
	// RateLimiter throttles queries. Nil disables throttling.
	RateLimiter *chain.RateLimiter
	// Logger receives connection diagnostics. Nil discards them.
	Logger LogWriter
	// Metrics counts queries. Nil means metrics.Global.
	Metrics *metrics.Metrics
}

// Compile-time interface check
var _ chain.Ledger = (*Client)(nil)

// Client is a liteserver connection bound to one V4R2 wallet.
type Client struct {
	pool    *liteclient.ConnectionPool
	api     ton.APIClientWrapped
	wallet  *wallet.Wallet
	address string
	limiter *chain.RateLimiter
	logger  LogWriter
	metrics *metrics.Metrics

	dnsMu  sync.Mutex
	dnsCli *dns.Client
}

// NewDialer returns a chain.Dialer that connects with opts.
func NewDialer(opts Options) chain.Dialer {
	return func(ctx context.Context, nodeURL string, kp *keypair.KeyPair) (chain.Ledger, error) {
		return Dial(ctx, nodeURL, kp, opts)
	}
}

// Dial connects to the ledger and binds the connection to kp's wallet.
func Dial(ctx context.Context, nodeURL string, kp *keypair.KeyPair, opts Options) (*Client, error) {
	priv, err := kp.PrivateKey()
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = nopLogger{}
	}

	m := opts.Metrics
	if m == nil {
		m = metrics.Global
	}

	pool := liteclient.NewConnectionPool()
	if addr := liteServerAddr(opts); addr != "" {
		logger.Debug("connecting to liteserver %s", addr)
		if err := pool.AddConnection(ctx, addr, opts.LiteServerKey); err != nil {
			pool.Stop()
			return nil, dialError(addr, err)
		}
	} else {
		if nodeURL == "" {
			nodeURL = DefaultConfigURL(opts.Network)
		}
		logger.Debug("connecting via liteserver config %s", nodeURL)
		if err := pool.AddConnectionsFromConfigUrl(ctx, nodeURL); err != nil {
			pool.Stop()
			return nil, dialError(nodeURL, err)
		}
	}

	api := ton.NewAPIClient(pool, proofPolicy(opts.Network)).WithRetry()

	w, err := wallet.FromPrivateKey(api, priv, wallet.V4R2)
	if err != nil {
		pool.Stop()
		return nil, fmt.Errorf("opening wallet: %w", err)
	}

	return &Client{
		pool:    pool,
		api:     api,
		wallet:  w,
		address: FriendlyAddress(w.WalletAddress(), isTestnet(opts.Network)),
		limiter: opts.RateLimiter,
		logger:  logger,
		metrics: m,
	}, nil
}

// Address returns the wallet address in non-bounceable user-friendly form,
// which is the form to fund a wallet that has not been deployed yet.
func (c *Client) Address() string {
	return c.address
}

// Balance returns the balance of address in nanotons. Accounts that were
// never funded read as zero.
func (c *Client) Balance(ctx context.Context, addr string) (*big.Int, error) {
	parsed, err := address.ParseAddr(addr)
	if err != nil {
		return nil, beaconerr.WithDetails(beaconerr.ErrInvalidAddress, map[string]string{"address": addr})
	}

	if err := c.wait(ctx, chain.OpBalance); err != nil {
		return nil, err
	}

	start := time.Now()
	account, err := c.account(ctx, parsed)
	c.metrics.RecordQuery(metrics.OpBalance, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	if account == nil || !account.IsActive || account.State == nil {
		return new(big.Int), nil
	}
	return account.State.Balance.Nano(), nil
}

// ResolveName resolves a .ton (or .t.me) name through the DNS root contract.
func (c *Client) ResolveName(ctx context.Context, name string) (*chain.NameRecord, error) {
	name = NormalizeName(name)
	if name == "" {
		return nil, beaconerr.WithDetails(beaconerr.ErrInvalidInput, map[string]string{"name": name})
	}

	resolver, err := c.resolver(ctx)
	if err != nil {
		return nil, err
	}

	if err := c.wait(ctx, chain.OpName); err != nil {
		return nil, err
	}

	start := time.Now()
	domain, err := resolver.Resolve(ctx, name)
	queryErr := err
	if errors.Is(err, dns.ErrNoSuchRecord) {
		queryErr = nil
	}
	c.metrics.RecordQuery(metrics.OpName, time.Since(start), queryErr)
	if err != nil {
		return nil, mapResolveError(name, err)
	}

	return recordFor(name, domain.GetWalletRecord(), isTestnetAddress(c.address)), nil
}

func (c *Client) account(ctx context.Context, addr *address.Address) (*tlb.Account, error) {
	block, err := c.api.CurrentMasterchainInfo(ctx)
	if err != nil {
		return nil, beaconerr.Wrap(beaconerr.ErrNetworkError, "fetching masterchain info: %v", err)
	}

	account, err := c.api.GetAccount(ctx, block, addr)
	if err != nil {
		return nil, beaconerr.Wrap(beaconerr.ErrNetworkError, "fetching account %s: %v", addr.String(), err)
	}
	return account, nil
}

// Close stops all liteserver connections.
func (c *Client) Close() error {
	c.pool.Stop()
	return nil
}

// resolver returns the DNS client, locating the root contract on first use.
func (c *Client) resolver(ctx context.Context) (*dns.Client, error) {
	c.dnsMu.Lock()
	defer c.dnsMu.Unlock()

	if c.dnsCli != nil {
		return c.dnsCli, nil
	}

	root, err := dns.GetRootContractAddr(ctx, c.api)
	if err != nil {
		return nil, beaconerr.Wrap(beaconerr.ErrNetworkError, "locating dns root: %v", err)
	}
	c.logger.Debug("dns root contract %s", root.String())

	c.dnsCli = dns.NewDNSClient(c.api, root)
	return c.dnsCli, nil
}

func (c *Client) wait(ctx context.Context, op string) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx, op)
}

// DefaultConfigURL returns the public liteserver config for network.
func DefaultConfigURL(network string) string {
	if strings.EqualFold(network, Mainnet) {
		return "https://ton.org/global.config.json"
	}
	return "https://ton.org/testnet-global.config.json"
}

// NormalizeName lowercases and trims a name, adding the .ton zone when no
// zone is given.
func NormalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.TrimSuffix(name, ".")
	if name == "" {
		return ""
	}
	if !strings.Contains(name, ".") {
		name += ".ton"
	}
	return name
}

// FriendlyAddress renders addr in non-bounceable user-friendly form.
func FriendlyAddress(addr *address.Address, testnet bool) string {
	if addr == nil {
		return ""
	}
	friendly := address.NewAddress(0, byte(addr.Workchain()), addr.Data())
	friendly.SetBounce(false)
	friendly.SetTestnetOnly(testnet)
	return friendly.String()
}

func recordFor(name string, walletAddr *address.Address, testnet bool) *chain.NameRecord {
	record := &chain.NameRecord{Name: name}
	if walletAddr != nil {
		record.Pointers = append(record.Pointers, chain.Pointer{
			Key: walletRecordKey,
			ID:  FriendlyAddress(walletAddr, testnet),
		})
	}
	return record
}

func mapResolveError(name string, err error) error {
	if errors.Is(err, dns.ErrNoSuchRecord) {
		return beaconerr.WithDetails(chain.ErrNameNotFound, map[string]string{"name": name})
	}
	return fmt.Errorf("resolving %s: %w", name, err)
}

func dialError(target string, err error) error {
	return chain.WrapRetryable(beaconerr.Wrap(beaconerr.ErrNetworkError, "connecting to %s: %v", target, err))
}

func liteServerAddr(opts Options) string {
	if opts.LiteServerHost == "" || opts.LiteServerKey == "" {
		return ""
	}
	port := opts.LiteServerPort
	if port == 0 {
		port = 4443
	}
	return fmt.Sprintf("%s:%d", opts.LiteServerHost, port)
}

func proofPolicy(network string) ton.ProofCheckPolicy {
	if strings.EqualFold(network, Mainnet) {
		return ton.ProofCheckPolicySecure
	}
	return ton.ProofCheckPolicyFast
}

func isTestnet(network string) bool {
	return !strings.EqualFold(network, Mainnet)
}

func isTestnetAddress(addr string) bool {
	parsed, err := address.ParseAddr(addr)
	if err != nil {
		return false
	}
	return parsed.IsTestnetOnly()
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
