package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/linqfy/horsesShit/internal/ledger"
	"github.com/linqfy/horsesShit/pkg/api"
)

// HorseService implements the Connect HorseService.
type HorseService struct {
	engine *ledger.Engine
}

// NewHorseService creates a HorseService backed by engine.
func NewHorseService(engine *ledger.Engine) *HorseService {
	return &HorseService{engine: engine}
}

// CreateHorse creates a horse with its buyers and full installment schedule.
func (s *HorseService) CreateHorse(ctx context.Context, req *connect.Request[api.CreateHorseRequest]) (*connect.Response[api.CreateHorseResponse], error) {
	msg := req.Msg
	horse, err := s.engine.CreateHorseWithBuyers(ctx, ledger.HorseInput{
		Name:             msg.Name,
		Information:      msg.Information,
		ImageURL:         msg.ImageURL,
		TotalValue:       msg.TotalValue,
		InstallmentCount: msg.InstallmentCount,
		BillingStart:     period(msg.BillingMonth, msg.BillingYear),
		Buyers:           toBuyerPercentages(msg.Buyers),
	})
	if err != nil {
		return nil, connectError("CreateHorse", err)
	}
	slog.Info("horse created", "horse_id", horse.ID, "buyers", len(msg.Buyers))
	return connect.NewResponse(&api.CreateHorseResponse{Horse: toAPIHorse(horse)}), nil
}

func (s *HorseService) GetHorse(ctx context.Context, req *connect.Request[api.GetHorseRequest]) (*connect.Response[api.GetHorseResponse], error) {
	detail, err := s.engine.GetHorse(ctx, req.Msg.ID)
	if err != nil {
		return nil, connectError("GetHorse", err)
	}

	resp := &api.GetHorseResponse{
		Horse:        toAPIHorse(detail.Horse),
		Shares:       make([]*api.Share, 0, len(detail.Shares)),
		Installments: make([]*api.InstallmentRows, 0, len(detail.Installments)),
	}
	for _, sh := range detail.Shares {
		resp.Shares = append(resp.Shares, toAPIShare(sh))
	}
	for _, inst := range detail.Installments {
		rows := make([]*api.ShareInstallment, 0, len(detail.Rows[inst.ID]))
		for _, r := range detail.Rows[inst.ID] {
			rows = append(rows, toAPIShareInstallment(r))
		}
		resp.Installments = append(resp.Installments, &api.InstallmentRows{
			Installment: toAPIInstallment(inst),
			Rows:        rows,
		})
	}
	return connect.NewResponse(resp), nil
}

func (s *HorseService) ListHorses(ctx context.Context, req *connect.Request[api.ListHorsesRequest]) (*connect.Response[api.ListHorsesResponse], error) {
	horses, err := s.engine.ListHorses(ctx, req.Msg.IncludeArchived)
	if err != nil {
		return nil, connectError("ListHorses", err)
	}
	out := make([]*api.Horse, 0, len(horses))
	for _, h := range horses {
		out = append(out, toAPIHorse(h))
	}
	return connect.NewResponse(&api.ListHorsesResponse{Horses: out}), nil
}

// UpdateHorse changes a horse and optionally replaces its buyers.
func (s *HorseService) UpdateHorse(ctx context.Context, req *connect.Request[api.UpdateHorseRequest]) (*connect.Response[api.UpdateHorseResponse], error) {
	msg := req.Msg
	upd := ledger.HorseUpdate{
		Name:             msg.Name,
		Information:      msg.Information,
		ImageURL:         msg.ImageURL,
		TotalValue:       msg.TotalValue,
		InstallmentCount: msg.InstallmentCount,
		Archived:         msg.Archived,
		Buyers:           toBuyerPercentages(msg.Buyers),
	}
	switch {
	case msg.BillingMonth != nil && msg.BillingYear != nil:
		start := period(*msg.BillingMonth, *msg.BillingYear)
		upd.BillingStart = &start
	case msg.BillingMonth != nil || msg.BillingYear != nil:
		return nil, invalidArgument("billing_month and billing_year must be set together")
	}

	horse, err := s.engine.UpdateHorseAndBuyers(ctx, msg.ID, upd)
	if err != nil {
		return nil, connectError("UpdateHorse", err)
	}
	return connect.NewResponse(&api.UpdateHorseResponse{Horse: toAPIHorse(horse)}), nil
}

// DeleteHorse reverts the horse's transactions and deletes it. Deleted is
// false when the horse did not exist.
func (s *HorseService) DeleteHorse(ctx context.Context, req *connect.Request[api.DeleteHorseRequest]) (*connect.Response[api.DeleteHorseResponse], error) {
	deleted, err := s.engine.DeleteHorseCascade(ctx, req.Msg.ID)
	if err != nil {
		return nil, connectError("DeleteHorse", err)
	}
	slog.Info("horse delete", "horse_id", req.Msg.ID, "deleted", deleted)
	return connect.NewResponse(&api.DeleteHorseResponse{Deleted: deleted}), nil
}

func (s *HorseService) AddShare(ctx context.Context, req *connect.Request[api.AddShareRequest]) (*connect.Response[api.AddShareResponse], error) {
	share, err := s.engine.AddShare(ctx, req.Msg.HorseID, req.Msg.BuyerID, req.Msg.Percentage)
	if err != nil {
		return nil, connectError("AddShare", err)
	}
	return connect.NewResponse(&api.AddShareResponse{Share: toAPIShare(share)}), nil
}

func (s *HorseService) UpdateShare(ctx context.Context, req *connect.Request[api.UpdateShareRequest]) (*connect.Response[api.UpdateShareResponse], error) {
	share, err := s.engine.UpdateShare(ctx, req.Msg.ID, req.Msg.Percentage)
	if err != nil {
		return nil, connectError("UpdateShare", err)
	}
	return connect.NewResponse(&api.UpdateShareResponse{Share: toAPIShare(share)}), nil
}

func (s *HorseService) RemoveShare(ctx context.Context, req *connect.Request[api.RemoveShareRequest]) (*connect.Response[api.RemoveShareResponse], error) {
	if err := s.engine.RemoveShare(ctx, req.Msg.ID); err != nil {
		return nil, connectError("RemoveShare", err)
	}
	return connect.NewResponse(&api.RemoveShareResponse{}), nil
}
