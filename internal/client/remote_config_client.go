package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/patrickmn/go-cache"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"minting_dapp/internal/domain/entity"
	dto "minting_dapp/internal/entity"
	"minting_dapp/internal/infrastructure/configloader"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// RemoteConfigClient implements port.NetworkConfigSource by fetching the ABI and
// config documents from the static configuration server.
type RemoteConfigClient struct {
	client     *fasthttp.Client
	baseURL    string
	abiPath    string
	configPath string
	timeout    time.Duration
	documents  *cache.Cache // path -> raw document bytes
	logger     *zap.Logger
}

// NewRemoteConfigClient creates a new instance of RemoteConfigClient.
func NewRemoteConfigClient(cfg *configloader.Config, logger *zap.Logger) *RemoteConfigClient {
	return &RemoteConfigClient{
		client:     &fasthttp.Client{},
		baseURL:    strings.TrimRight(cfg.RemoteConfig.BaseURL, "/"),
		abiPath:    cfg.RemoteConfig.ABIPath,
		configPath: cfg.RemoteConfig.ConfigPath,
		timeout:    cfg.RemoteRequestTimeout(),
		documents:  cache.New(cfg.CacheExpiration(), cfg.CacheCleanupInterval()),
		logger:     logger.Named("RemoteConfigClient"),
	}
}

// LoadNetworkConfig fetches both documents concurrently and merges them.
func (c *RemoteConfigClient) LoadNetworkConfig(ctx context.Context) (entity.NetworkConfig, error) {
	var abiRaw, configRaw []byte

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		body, err := c.fetch(egCtx, c.abiPath)
		abiRaw = body
		return err
	})
	eg.Go(func() error {
		body, err := c.fetch(egCtx, c.configPath)
		configRaw = body
		return err
	})
	if err := eg.Wait(); err != nil {
		return entity.NetworkConfig{}, err
	}

	if !json.Valid(abiRaw) {
		return entity.NetworkConfig{}, fmt.Errorf("%s is not valid JSON", c.abiPath)
	}

	var doc dto.RemoteConfigDocument
	if err := json.Unmarshal(configRaw, &doc); err != nil {
		c.logger.Error("Failed to unmarshal config document", zap.String("path", c.configPath), zap.Error(err))
		return entity.NetworkConfig{}, fmt.Errorf("failed to unmarshal %s: %w", c.configPath, err)
	}
	if err := validateDocument(doc); err != nil {
		return entity.NetworkConfig{}, fmt.Errorf("invalid %s: %w", c.configPath, err)
	}

	// Only documents that passed validation are cached.
	c.documents.Set(c.abiPath, abiRaw, cache.DefaultExpiration)
	c.documents.Set(c.configPath, configRaw, cache.DefaultExpiration)
	return toNetworkConfig(doc, abiRaw), nil
}

// Invalidate drops the cached documents so the next load hits the server.
func (c *RemoteConfigClient) Invalidate() {
	c.documents.Flush()
}

func (c *RemoteConfigClient) fetch(ctx context.Context, path string) ([]byte, error) {
	if cached, found := c.documents.Get(path); found {
		if body, ok := cached.([]byte); ok {
			return body, nil
		}
	}

	requestURL := c.baseURL + path
	c.logger.Debug("Requesting config document", zap.String("url", requestURL))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.SetContentType("application/json")
	req.Header.Set(fasthttp.HeaderAccept, "application/json")

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.client.DoDeadline(req, resp, deadline); err != nil {
		c.logger.Error("Failed to execute config request", zap.String("url", requestURL), zap.Error(err))
		return nil, fmt.Errorf("failed to execute request to %s: %w", requestURL, err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Error("Config request failed",
			zap.String("url", requestURL),
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", resp.Body()),
		)
		return nil, fmt.Errorf("request to %s failed with status %d", requestURL, resp.StatusCode())
	}

	// The response buffer is reused after release.
	return append([]byte(nil), resp.Body()...), nil
}

func validateDocument(doc dto.RemoteConfigDocument) error {
	var errs []error
	if strings.TrimSpace(doc.ContractAddress) == "" {
		errs = append(errs, errors.New("CONTRACT_ADDRESS is empty"))
	}
	if doc.Network.ID <= 0 {
		errs = append(errs, errors.New("NETWORK.ID must be positive"))
	}
	if strings.TrimSpace(doc.Network.Name) == "" {
		errs = append(errs, errors.New("NETWORK.NAME is empty"))
	}
	return errors.Join(errs...)
}

func toNetworkConfig(doc dto.RemoteConfigDocument, abiRaw []byte) entity.NetworkConfig {
	return entity.NetworkConfig{
		RequiredNetworkID:   doc.Network.ID,
		RequiredNetworkName: doc.Network.Name,
		NetworkSymbol:       doc.Network.Symbol,
		ContractAddress:     doc.ContractAddress,
		ContractABI:         entity.ContractDescriptor{Raw: abiRaw},
		NFTName:             doc.NFTName,
		Symbol:              doc.Symbol,
		MaxSupply:           doc.MaxSupply,
		WeiCost:             doc.WeiCost.String(),
		DisplayCost:         doc.DisplayCost.String(),
		GasLimit:            doc.GasLimit,
		ScanLink:            doc.ScanLink,
		MarketplaceName:     doc.Marketplace,
		MarketplaceLink:     doc.MarketplaceLink,
		ShowBackground:      doc.ShowBackground,
	}
}
