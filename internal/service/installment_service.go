package service

import (
	"context"

	"connectrpc.com/connect"

	"github.com/linqfy/horsesShit/internal/ledger"
	"github.com/linqfy/horsesShit/pkg/api"
)

// InstallmentService implements the Connect InstallmentService.
type InstallmentService struct {
	engine *ledger.Engine
}

// NewInstallmentService creates an InstallmentService backed by engine.
func NewInstallmentService(engine *ledger.Engine) *InstallmentService {
	return &InstallmentService{engine: engine}
}

// ListInstallments lists installments due in a month. Month and year zero list
// every installment.
func (s *InstallmentService) ListInstallments(ctx context.Context, req *connect.Request[api.ListInstallmentsRequest]) (*connect.Response[api.ListInstallmentsResponse], error) {
	insts, err := s.engine.ListInstallments(ctx, period(req.Msg.Month, req.Msg.Year))
	if err != nil {
		return nil, connectError("ListInstallments", err)
	}
	out := make([]*api.Installment, 0, len(insts))
	for _, inst := range insts {
		out = append(out, toAPIInstallment(inst))
	}
	return connect.NewResponse(&api.ListInstallmentsResponse{Installments: out}), nil
}

func (s *InstallmentService) ListShareInstallments(ctx context.Context, req *connect.Request[api.ListShareInstallmentsRequest]) (*connect.Response[api.ListShareInstallmentsResponse], error) {
	rows, err := s.engine.ListShareInstallments(ctx, req.Msg.ShareID, period(req.Msg.Month, req.Msg.Year))
	if err != nil {
		return nil, connectError("ListShareInstallments", err)
	}
	out := make([]*api.ShareInstallment, 0, len(rows))
	for _, r := range rows {
		out = append(out, toAPIShareInstallment(r))
	}
	return connect.NewResponse(&api.ListShareInstallmentsResponse{Rows: out}), nil
}

// PayInstallment records a payment against one share installment.
func (s *InstallmentService) PayInstallment(ctx context.Context, req *connect.Request[api.PayInstallmentRequest]) (*connect.Response[api.PayInstallmentResponse], error) {
	row, err := s.engine.PayInstallment(ctx, req.Msg.ShareInstallmentID, req.Msg.Amount, req.Msg.CreditBalance)
	if err != nil {
		return nil, connectError("PayInstallment", err)
	}
	return connect.NewResponse(&api.PayInstallmentResponse{Row: toAPIShareInstallment(row)}), nil
}

// CheckOverdue runs the overdue sweep now.
func (s *InstallmentService) CheckOverdue(ctx context.Context, req *connect.Request[api.CheckOverdueRequest]) (*connect.Response[api.CheckOverdueResponse], error) {
	res, err := s.engine.CheckOverdue(ctx)
	if err != nil {
		return nil, connectError("CheckOverdue", err)
	}
	return connect.NewResponse(&api.CheckOverdueResponse{Result: toAPISweep(res)}), nil
}
