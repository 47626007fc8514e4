package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/linqfy/horsesShit/internal/ledger"
	"github.com/linqfy/horsesShit/internal/models"
	"github.com/linqfy/horsesShit/pkg/api"
)

// BuyerService implements the Connect BuyerService.
type BuyerService struct {
	engine *ledger.Engine
}

// NewBuyerService creates a BuyerService backed by engine.
func NewBuyerService(engine *ledger.Engine) *BuyerService {
	return &BuyerService{engine: engine}
}

func (s *BuyerService) CreateBuyer(ctx context.Context, req *connect.Request[api.CreateBuyerRequest]) (*connect.Response[api.CreateBuyerResponse], error) {
	buyer, err := s.engine.CreateBuyer(ctx, &models.Buyer{
		Name:    req.Msg.Name,
		Email:   req.Msg.Email,
		DNI:     req.Msg.DNI,
		IsAdmin: req.Msg.IsAdmin,
	})
	if err != nil {
		return nil, connectError("CreateBuyer", err)
	}
	slog.Info("buyer created", "buyer_id", buyer.ID)
	return connect.NewResponse(&api.CreateBuyerResponse{Buyer: toAPIBuyer(buyer)}), nil
}

func (s *BuyerService) GetBuyer(ctx context.Context, req *connect.Request[api.GetBuyerRequest]) (*connect.Response[api.GetBuyerResponse], error) {
	buyer, err := s.engine.GetBuyer(ctx, req.Msg.ID)
	if err != nil {
		return nil, connectError("GetBuyer", err)
	}
	return connect.NewResponse(&api.GetBuyerResponse{Buyer: toAPIBuyer(buyer)}), nil
}

func (s *BuyerService) ListBuyers(ctx context.Context, req *connect.Request[api.ListBuyersRequest]) (*connect.Response[api.ListBuyersResponse], error) {
	buyers, err := s.engine.ListBuyers(ctx)
	if err != nil {
		return nil, connectError("ListBuyers", err)
	}
	out := make([]*api.Buyer, 0, len(buyers))
	for _, b := range buyers {
		out = append(out, toAPIBuyer(b))
	}
	return connect.NewResponse(&api.ListBuyersResponse{Buyers: out}), nil
}

func (s *BuyerService) UpdateBuyer(ctx context.Context, req *connect.Request[api.UpdateBuyerRequest]) (*connect.Response[api.UpdateBuyerResponse], error) {
	buyer, err := s.engine.UpdateBuyer(ctx, req.Msg.ID, ledger.BuyerUpdate{
		Name:    req.Msg.Name,
		Email:   req.Msg.Email,
		DNI:     req.Msg.DNI,
		IsAdmin: req.Msg.IsAdmin,
	})
	if err != nil {
		return nil, connectError("UpdateBuyer", err)
	}
	return connect.NewResponse(&api.UpdateBuyerResponse{Buyer: toAPIBuyer(buyer)}), nil
}

func (s *BuyerService) DeleteBuyer(ctx context.Context, req *connect.Request[api.DeleteBuyerRequest]) (*connect.Response[api.DeleteBuyerResponse], error) {
	if err := s.engine.DeleteBuyer(ctx, req.Msg.ID); err != nil {
		return nil, connectError("DeleteBuyer", err)
	}
	slog.Info("buyer deleted", "buyer_id", req.Msg.ID)
	return connect.NewResponse(&api.DeleteBuyerResponse{}), nil
}

// GetBuyerBalance returns the balance detail of a buyer.
func (s *BuyerService) GetBuyerBalance(ctx context.Context, req *connect.Request[api.GetBuyerBalanceRequest]) (*connect.Response[api.GetBuyerBalanceResponse], error) {
	bal, err := s.engine.BuyerBalance(ctx, req.Msg.ID)
	if err != nil {
		return nil, connectError("GetBuyerBalance", err)
	}

	horses := make([]*api.HorseBalance, 0, len(bal.Horses))
	for _, h := range bal.Horses {
		horses = append(horses, &api.HorseBalance{
			HorseID:    h.HorseID,
			ShareID:    h.ShareID,
			Percentage: h.Percentage,
			Active:     h.Active,
			Balance:    h.Balance,
		})
	}
	return connect.NewResponse(&api.GetBuyerBalanceResponse{Balance: &api.BuyerBalance{
		BuyerID:     bal.BuyerID,
		Current:     bal.Current,
		Outstanding: bal.Outstanding,
		TotalPaid:   bal.TotalPaid,
		Horses:      horses,
	}}), nil
}
