package analysis

import (
	"sort"
	"strings"
	"time"

	"insightengine/domain/analysis"
	"insightengine/domain/core"
	"insightengine/domain/dataset"
)

// productNameHints mark a categorical column as product-like.
var productNameHints = []string{"product", "item", "good", "sku", "merchandise"}

// transactionNameHints mark a column as an explicit transaction key.
var transactionNameHints = []string{"transaction", "order", "invoice"}

// sessionGap is the maximum spacing between consecutive timestamps that
// still counts as the same synthetic transaction.
const sessionGap = 5 * time.Minute

const (
	maxAssociationKeys     = 5
	maxAssociationPartners = 3
)

// MineAssociations finds product values that co-occur within the same
// transaction group. Absence of any product signal produces an empty map;
// presentation fallbacks are the caller's concern.
func MineAssociations(table *dataset.Table, classification analysis.Classification) analysis.AssociationMap {
	productCol, ok := detectProductColumn(table, classification)
	if !ok {
		return analysis.AssociationMap{}
	}

	groups := groupTransactions(table, productCol)

	// Occurrence and symmetric co-occurrence counts over deduplicated
	// groups. Order slices keep iteration deterministic.
	occurrence := make(map[string]int)
	cooccurrence := make(map[string]map[string]int)
	productOrder := make([]string, 0)

	for _, group := range groups {
		for i, p := range group {
			if _, seen := occurrence[p]; !seen {
				productOrder = append(productOrder, p)
				cooccurrence[p] = make(map[string]int)
			}
			occurrence[p]++
			for j, q := range group {
				if i == j {
					continue
				}
				cooccurrence[p][q]++
			}
		}
	}

	// Top 5 most frequent products become candidate keys.
	keys := append([]string(nil), productOrder...)
	sort.SliceStable(keys, func(a, b int) bool {
		return occurrence[keys[a]] > occurrence[keys[b]]
	})
	if len(keys) > maxAssociationKeys {
		keys = keys[:maxAssociationKeys]
	}

	associations := make(analysis.AssociationMap, len(keys))
	for _, key := range keys {
		partners := make([]analysis.AssociatedItem, 0, len(cooccurrence[key]))
		for _, other := range productOrder {
			count := cooccurrence[key][other]
			if count == 0 {
				continue
			}
			partners = append(partners, analysis.AssociatedItem{
				Item:       other,
				Confidence: float64(count) / float64(occurrence[key]),
			})
		}
		if len(partners) == 0 {
			continue
		}
		sort.SliceStable(partners, func(a, b int) bool {
			return partners[a].Confidence > partners[b].Confidence
		})
		if len(partners) > maxAssociationPartners {
			partners = partners[:maxAssociationPartners]
		}
		associations[key] = partners
	}
	return associations
}

// detectProductColumn picks the first categorical column with a product-like
// name.
func detectProductColumn(table *dataset.Table, classification analysis.Classification) (string, bool) {
	for _, col := range table.Columns {
		if classification[string(col)] != analysis.TypeCategorical {
			continue
		}
		name := strings.ToLower(string(col))
		for _, hint := range productNameHints {
			if strings.Contains(name, hint) {
				return string(col), true
			}
		}
	}
	return "", false
}

// detectTransactionColumn picks the first column named like an explicit
// transaction key, excluding the product column itself.
func detectTransactionColumn(table *dataset.Table, productCol string) (string, bool) {
	for _, col := range table.Columns {
		if string(col) == productCol {
			continue
		}
		name := strings.ToLower(string(col))
		// "id" must be its own token: a bare "id" suffix would also match
		// columns like "paid" or "grid".
		if name == "id" || strings.HasSuffix(name, "_id") || strings.HasSuffix(name, " id") {
			return string(col), true
		}
		for _, hint := range transactionNameHints {
			if strings.Contains(name, hint) {
				return string(col), true
			}
		}
	}
	return "", false
}

// groupTransactions assigns every row's product value to a basket. Priority:
// explicit transaction column, then 5-minute temporal sessions on a
// date-like column, then one row per basket. Repeated products within a
// basket are deduplicated.
func groupTransactions(table *dataset.Table, productCol string) [][]string {
	productIdx := table.ColumnIndex(core.ColumnKey(productCol))

	if txnCol, ok := detectTransactionColumn(table, productCol); ok {
		return groupByKey(table, productIdx, txnCol)
	}
	if dateCol, ok := detectDateColumn(table); ok {
		if groups, ok := groupBySession(table, productIdx, dateCol); ok {
			return groups
		}
	}
	return groupSingletons(table, productIdx)
}

func groupByKey(table *dataset.Table, productIdx int, txnCol string) [][]string {
	txnIdx := table.ColumnIndex(core.ColumnKey(txnCol))
	grouped := make(map[string][]string)
	keyOrder := make([]string, 0)

	for _, row := range table.Rows {
		key, ok := row[txnIdx].AsString()
		if !ok {
			continue
		}
		product, ok := row[productIdx].AsString()
		if !ok {
			continue
		}
		if _, seen := grouped[key]; !seen {
			keyOrder = append(keyOrder, key)
		}
		grouped[key] = appendUnique(grouped[key], product)
	}

	groups := make([][]string, 0, len(keyOrder))
	for _, key := range keyOrder {
		groups = append(groups, grouped[key])
	}
	return groups
}

// groupBySession sorts rows by parsed timestamp and starts a new basket
// whenever the gap to the previous row exceeds sessionGap. Reports false
// when no timestamps parse, so the caller can fall through to singletons.
func groupBySession(table *dataset.Table, productIdx int, dateCol string) ([][]string, bool) {
	dateIdx := table.ColumnIndex(core.ColumnKey(dateCol))

	type stampedRow struct {
		at      time.Time
		product string
	}
	stamped := make([]stampedRow, 0, table.RowCount())
	for _, row := range table.Rows {
		raw, ok := row[dateIdx].AsString()
		if !ok {
			continue
		}
		at, ok := parseDate(strings.TrimSpace(raw))
		if !ok {
			continue
		}
		product, ok := row[productIdx].AsString()
		if !ok {
			continue
		}
		stamped = append(stamped, stampedRow{at: at, product: product})
	}
	if len(stamped) == 0 {
		return nil, false
	}

	sort.SliceStable(stamped, func(a, b int) bool {
		return stamped[a].at.Before(stamped[b].at)
	})

	groups := make([][]string, 0)
	current := []string{stamped[0].product}
	for i := 1; i < len(stamped); i++ {
		if stamped[i].at.Sub(stamped[i-1].at) > sessionGap {
			groups = append(groups, current)
			current = nil
		}
		current = appendUnique(current, stamped[i].product)
	}
	groups = append(groups, current)
	return groups, true
}

func groupSingletons(table *dataset.Table, productIdx int) [][]string {
	groups := make([][]string, 0, table.RowCount())
	for _, row := range table.Rows {
		if product, ok := row[productIdx].AsString(); ok {
			groups = append(groups, []string{product})
		}
	}
	return groups
}

func appendUnique(values []string, value string) []string {
	for _, v := range values {
		if v == value {
			return values
		}
	}
	return append(values, value)
}
