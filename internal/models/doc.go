// Package models defines the core domain models for the horse ownership ledger.
//
// # Models
//
//   - Buyer: an investor with a running balance
//   - Horse: a shared asset billed in installments
//   - Share: the percentage one buyer owns of one horse
//   - Installment / ShareInstallment: the billing schedule and each buyer's prorated row
//   - Payment: one settlement recorded against a ShareInstallment
//   - Transaction: INGRESO, EGRESO, PREMIO or PAGO
//   - Posting: the balance movement a transaction applied to one share
//   - ExpensePaidMark: per-buyer acknowledgement of an EGRESO
//   - Operator: an account allowed to use the API
//
// # Design Principles
//
// 1. **Flat references**: relationships are integer IDs, never pointers. Lookups go
// through the store.
// 2. **Exact money**: amounts and percentages are decimal.Decimal, rounded to cents
// with banker's rounding where the ledger needs a stored value.
// 3. **Zero means absent**: an optional ID of 0 and a zero time.Time are stored as NULL.
package models
