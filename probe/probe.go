package probe

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	tpconfig "github.com/TopiaNetwork/contractconf/configuration"
	tplog "github.com/TopiaNetwork/contractconf/log"
	tplogcmm "github.com/TopiaNetwork/contractconf/log/common"
)

const MOD_NAME = "probe"

// DefaultTimeout bounds a Check when the caller's context has no deadline.
const DefaultTimeout = 5 * time.Second

type DialFunc func(ctx context.Context, rawurl string) (*rpc.Client, error)

type Result struct {
	Network   string
	Endpoint  string
	Expected  tpconfig.NetworkID
	NetworkID *big.Int
	ChainID   *big.Int // nil when the node has no eth_chainId
	Elapsed   time.Duration
}

type MismatchError struct {
	Network  string
	Expected tpconfig.NetworkID
	Actual   *big.Int
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("network %s: node reports network id %s, expected %s", e.Network, e.Actual, e.Expected)
}

type Prober struct {
	log  tplog.Logger
	dial DialFunc
}

type Option func(*Prober)

// WithDialer replaces rpc.DialContext, e.g. with an in-process client.
func WithDialer(dial DialFunc) Option {
	return func(p *Prober) {
		p.dial = dial
	}
}

func NewProber(level tplogcmm.LogLevel, log tplog.Logger, opts ...Option) *Prober {
	if log == nil {
		log = tplog.NewNopLogger()
	}

	p := &Prober{
		log:  tplog.CreateModuleLogger(level, MOD_NAME, log),
		dial: rpc.DialContext,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CheckNetwork probes the node of a configured environment.
func (p *Prober) CheckNetwork(ctx context.Context, cfg *tpconfig.Configuration, environmentName string) (*Result, error) {
	profile, err := cfg.Get(environmentName)
	if err != nil {
		return nil, err
	}
	return p.Check(ctx, environmentName, profile)
}

// Check dials the profile's node, reads its network id and, when
// available, its chain id. A node on another network yields a
// *MismatchError together with the filled Result.
func (p *Prober) Check(ctx context.Context, name string, profile tpconfig.NetworkProfile) (*Result, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultTimeout)
		defer cancel()
	}

	log := tplog.WithField(p.log, "network", name)
	start := time.Now()

	client, err := p.dial(ctx, profile.URL())
	if err != nil {
		log.Warnf("dial %s failed: %v", profile.URL(), err)
		return nil, fmt.Errorf("dial network %s at %s: %w", name, profile.URL(), err)
	}
	defer client.Close()

	ec := ethclient.NewClient(client)

	networkID, err := ec.NetworkID(ctx)
	if err != nil {
		log.Warnf("net_version on %s failed: %v", profile.URL(), err)
		return nil, fmt.Errorf("query network id of %s at %s: %w", name, profile.URL(), err)
	}

	result := &Result{
		Network:   name,
		Endpoint:  profile.Endpoint(),
		Expected:  profile.NetworkID,
		NetworkID: networkID,
	}

	if chainID, err := ec.ChainID(ctx); err == nil {
		result.ChainID = chainID
	} else {
		log.Debugf("eth_chainId unavailable on %s: %v", profile.URL(), err)
	}
	result.Elapsed = time.Since(start)

	if !profile.NetworkID.Matches(networkID) {
		mErr := &MismatchError{Network: name, Expected: profile.NetworkID, Actual: networkID}
		log.Error(mErr.Error())
		return result, mErr
	}

	log.Infof("node %s reachable, network id %s, chain id %v", result.Endpoint, networkID, result.ChainID)
	return result, nil
}
