// Package cryptobook tracks the crypto and fiat transactions of several
// owners and analyzes them: holdings, weighted average cost basis, floating
// and realized profit or loss, and fees.
//
// The core functionalities include:
//   - Ledger: five kinds of Transaction (fiat purchase of a stable asset,
//     crypto purchase, sale, transfer and swap) built from flat Records.
//   - Fee normalization: every fee, declared or hidden in a rate, a transfer
//     loss or a slippage, expressed in USD.
//   - Analysis: an Engine computing balances, cost basis, positions,
//     realized gains and fee summaries from a snapshot of transactions and
//     prices. It is stateless: the same snapshot always gives the same reports.
//   - Write path: a Book validating writes and refusing any that would spend
//     more than an owner holds.
//   - Persistence: the Store interface, with in-memory and JSONL
//     implementations here, and CSV import and export.
//
// This package serves as the foundational logic for the `cbk` command-line
// tool and its HTTP API.
package cryptobook
