package restapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"minting_dapp/internal/app/port"
	"minting_dapp/internal/app/service"
	"minting_dapp/internal/app/store"
	"minting_dapp/internal/domain/entity"
	"minting_dapp/internal/pkg/utils"
)

// weiDecimals is the number of decimals of the native currency.
const weiDecimals = 18

// ConnectionFlow starts a wallet connection.
type ConnectionFlow interface {
	Connect(ctx context.Context) (*service.Subscriptions, error)
}

// DataFlow refreshes the contract data.
type DataFlow interface {
	FetchData(ctx context.Context) error
}

// ConnectionView is the JSON projection of the connection state.
type ConnectionView struct {
	Status          entity.ConnectionStatus `json:"status"`
	Account         string                  `json:"account,omitempty"`
	ContractAddress string                  `json:"contractAddress,omitempty"`
	ErrorMessage    string                  `json:"errorMessage,omitempty"`
}

// SyncView is the JSON projection of the data sync state.
type SyncView struct {
	Status       entity.SyncStatus `json:"status"`
	TotalSupply  string            `json:"totalSupply,omitempty"`
	ErrorMessage string            `json:"errorMessage,omitempty"`
}

// StateResponse is returned by the state, connect and refresh endpoints.
type StateResponse struct {
	Connection ConnectionView `json:"connection"`
	Sync       SyncView       `json:"sync"`
	Error      *ErrorView     `json:"error,omitempty"`
}

// ErrorView describes the failure of the requested operation.
type ErrorView struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// ConfigResponse is the dapp configuration with the formatted mint cost.
type ConfigResponse struct {
	entity.NetworkConfig
	CostFormatted string `json:"costFormatted,omitempty"`
}

// DappHandler serves the wallet and contract state.
type DappHandler struct {
	store        *store.Store
	connection   ConnectionFlow
	data         DataFlow
	configSource port.NetworkConfigSource
	logger       *zap.Logger
}

// NewDappHandler creates a new DappHandler.
func NewDappHandler(st *store.Store, connection ConnectionFlow, data DataFlow, configSource port.NetworkConfigSource, logger *zap.Logger) *DappHandler {
	return &DappHandler{
		store:        st,
		connection:   connection,
		data:         data,
		configSource: configSource,
		logger:       logger.Named("restapi"),
	}
}

// GetState returns the current store snapshot.
func (h *DappHandler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, toStateResponse(h.store.State(), nil))
}

// GetConfig returns the dapp configuration used by the connection flow.
func (h *DappHandler) GetConfig(c *gin.Context) {
	cfg, err := h.configSource.LoadNetworkConfig(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to load dapp configuration", zap.Error(err))
		c.JSON(http.StatusBadGateway, ErrorView{Kind: entity.KindConfigUnavailable.String(), Message: entity.MsgConnectionFailed})
		return
	}

	resp := ConfigResponse{NetworkConfig: cfg}
	if cfg.WeiCost != "" {
		if wei, err := utils.ParseBigInt(cfg.WeiCost); err == nil {
			resp.CostFormatted = utils.FormatBigInt(wei, weiDecimals)
		} else {
			h.logger.Warn("Invalid WEI_COST in configuration", zap.String("weiCost", cfg.WeiCost), zap.Error(err))
		}
	}
	c.JSON(http.StatusOK, resp)
}

// Connect runs the connection flow and returns the resulting state.
func (h *DappHandler) Connect(c *gin.Context) {
	_, err := h.connection.Connect(c.Request.Context())
	h.respond(c, err)
}

// RefreshData runs the data sync flow and returns the resulting state.
func (h *DappHandler) RefreshData(c *gin.Context) {
	err := h.data.FetchData(c.Request.Context())
	if errors.Is(err, service.ErrSuperseded) {
		// A newer sync owns the state now.
		err = nil
	}
	h.respond(c, err)
}

// Health reports liveness.
func (h *DappHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *DappHandler) respond(c *gin.Context, err error) {
	if err == nil {
		c.JSON(http.StatusOK, toStateResponse(h.store.State(), nil))
		return
	}

	var fe *entity.FlowError
	if !errors.As(err, &fe) {
		h.logger.Error("Unexpected flow error", zap.Error(err))
		fe = entity.NewFlowError(entity.KindUnknown, entity.MsgConnectionFailed, err)
	}
	c.JSON(statusForKind(fe.Kind), toStateResponse(h.store.State(), &ErrorView{Kind: fe.Kind.String(), Message: fe.Message}))
}

func statusForKind(kind entity.ErrorKind) int {
	switch kind {
	case entity.KindWalletMissing:
		return http.StatusServiceUnavailable
	case entity.KindAuthorizationRejected:
		return http.StatusForbidden
	case entity.KindNetworkMismatch, entity.KindNotConnected:
		return http.StatusConflict
	case entity.KindConfigUnavailable, entity.KindRPC, entity.KindContractCall:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func toStateResponse(s store.State, errView *ErrorView) StateResponse {
	conn := store.SelectConnection(s)
	resp := StateResponse{
		Connection: ConnectionView{
			Status:       conn.Status,
			Account:      store.SelectAccount(s),
			ErrorMessage: conn.ErrorMessage,
		},
		Error: errView,
	}
	if contract := store.SelectContract(s); contract != nil {
		resp.Connection.ContractAddress = contract.Address()
	}

	sync := store.SelectSync(s)
	resp.Sync = SyncView{Status: sync.Status, ErrorMessage: sync.ErrorMessage}
	if supply := store.SelectTotalSupply(s); supply != nil {
		resp.Sync.TotalSupply = supply.String()
	}
	return resp
}
