package main

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/balance"
	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/model"
	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/service"
)

func printPlan(w io.Writer, p service.Plan) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "operation:\t%s\n", p.Operation)
	fmt.Fprintf(tw, "protostones:\t%s\n", p.Protostones)
	fmt.Fprintf(tw, "requirements:\t%s\n", p.Requirements)
	fmt.Fprintf(tw, "fee:\t%d sats (%d vB at %g sat/vB)\n", p.Tx.Fee, p.Tx.VSize, p.Tx.FeeRate)
	fmt.Fprintln(tw, "inputs:")
	for _, in := range p.Tx.Inputs {
		fmt.Fprintf(tw, "  %s\t%d sats\t%s\n", in.Utxo.Outpoint, in.Utxo.ValueSats, formatBalances(in.Utxo.AssetBalances))
	}
	fmt.Fprintln(tw, "outputs:")
	for i, out := range p.Tx.Outputs {
		fmt.Fprintf(tw, "  v%d\t%s\t%s\t%d sats\n", i, out.Role, or(out.Address, "-"), out.ValueSats)
	}
	if len(p.Tx.AssetChange) > 0 {
		fmt.Fprintf(tw, "asset change:\t%s\n", formatBalances(p.Tx.AssetChange))
	}
	return tw.Flush()
}

func printBalances(w io.Writer, balances map[model.AssetID]model.Amount) error {
	if len(balances) == 0 {
		_, err := fmt.Fprintln(w, "no alkanes")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, id := range sortedAssets(balances) {
		v := balances[id]
		fmt.Fprintf(tw, "%s\t%s\n", id, v.Dec())
	}
	return tw.Flush()
}

func printReserves(w io.Writer, pool model.AssetID, r balance.Reserves) error {
	_, err := fmt.Fprintf(w, "%s\treserve0=%s\treserve1=%s\n", pool, r.Reserve0.Dec(), r.Reserve1.Dec())
	return err
}

func printRecords(w io.Writer, records []model.BroadcastRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "no broadcasts")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "BROADCAST AT\tTXID\tOPERATION\tFEE\tPROTOSTONES")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
			r.BroadcastAt.Format("2006-01-02 15:04:05"), r.TxID, r.Operation, r.Fee, r.Protostones)
	}
	return tw.Flush()
}

func formatBalances(balances map[model.AssetID]model.Amount) string {
	if len(balances) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(balances))
	for _, id := range sortedAssets(balances) {
		v := balances[id]
		parts = append(parts, id.String()+"="+v.Dec())
	}
	return strings.Join(parts, ",")
}

func sortedAssets(balances map[model.AssetID]model.Amount) []model.AssetID {
	ids := make([]model.AssetID, 0, len(balances))
	for id := range balances {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b model.AssetID) int {
		return cmp.Or(cmp.Compare(a.Block, b.Block), cmp.Compare(a.Tx, b.Tx))
	})
	return ids
}

func or(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
