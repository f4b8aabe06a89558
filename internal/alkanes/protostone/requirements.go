package protostone

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/model"
)

// ParseRequirements parses "B:sats[:vN]" and "block:tx:amount[:vN]" entries joined by commas.
func ParseRequirements(text string) ([]model.InputRequirement, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	entries := strings.Split(text, ",")
	reqs := make([]model.InputRequirement, 0, len(entries))
	for _, entry := range entries {
		req, err := parseRequirement(entry)
		if err != nil {
			return nil, &model.GrammarError{Input: entry, Reason: err.Error()}
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

func parseRequirement(entry string) (model.InputRequirement, error) {
	fields := strings.Split(entry, ":")
	var (
		req  model.InputRequirement
		rest []string
	)
	if fields[0] == "B" {
		if len(fields) < 2 || len(fields) > 3 {
			return req, fmt.Errorf("base requirement wants B:sats[:vN]")
		}
		sats, err := parseUint64(fields[1])
		if err != nil {
			return req, fmt.Errorf("sats: %w", err)
		}
		req = model.InputRequirement{Asset: model.BaseAsset, Sats: sats}
		rest = fields[2:]
	} else {
		if len(fields) < 3 || len(fields) > 4 {
			return req, fmt.Errorf("asset requirement wants block:tx:amount[:vN]")
		}
		asset, err := model.ParseAssetID(fields[0] + ":" + fields[1])
		if err != nil {
			return req, err
		}
		amount, err := model.ParseAmount(fields[2])
		if err != nil {
			return req, err
		}
		req = model.AssetRequirement(asset, amount)
		rest = fields[3:]
	}
	if len(rest) == 1 {
		ref, err := model.ParseAddressReference(rest[0])
		if err != nil {
			return req, err
		}
		if ref.Kind != model.RefOutput {
			return req, fmt.Errorf("requirement target must be a value output, got %s", ref)
		}
		req.Target = &ref
	}
	return req, nil
}

// FormatRequirements is the inverse of ParseRequirements.
func FormatRequirements(reqs []model.InputRequirement) string {
	parts := make([]string, 0, len(reqs))
	for _, r := range reqs {
		var s string
		if r.IsBase() {
			s = "B:" + strconv.FormatUint(r.Sats, 10)
		} else {
			s = r.Asset.String() + ":" + r.Amount.Dec()
		}
		if r.Target != nil {
			s += ":" + r.Target.String()
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ",")
}
