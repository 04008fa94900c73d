// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package esplora

import (
	"encoding/json"
	"fmt"

	"github.com/complex-gh/seedscan/scan"
)

type txoStats struct {
	FundedTxoCount int64 `json:"funded_txo_count"`
	FundedTxoSum   int64 `json:"funded_txo_sum"`
	SpentTxoCount  int64 `json:"spent_txo_count"`
	SpentTxoSum    int64 `json:"spent_txo_sum"`
	TxCount        int64 `json:"tx_count"`
}

type addressStats struct {
	Address      string    `json:"address"`
	ChainStats   *txoStats `json:"chain_stats"`
	MempoolStats *txoStats `json:"mempool_stats"`
}

func (a *addressStats) unmarshal(body []byte) error {
	if err := json.Unmarshal(body, a); err != nil {
		return fmt.Errorf("decode address stats: %w", err)
	}
	if a.ChainStats == nil || a.MempoolStats == nil {
		return fmt.Errorf("decode address stats: missing chain_stats or mempool_stats")
	}
	return nil
}

func (a *addressStats) balance() scan.Balance {
	return scan.Balance{
		Funded:  a.ChainStats.FundedTxoSum + a.MempoolStats.FundedTxoSum,
		Spent:   a.ChainStats.SpentTxoSum + a.MempoolStats.SpentTxoSum,
		TxCount: a.ChainStats.TxCount + a.MempoolStats.TxCount,
	}
}
