package stats

import (
	"fmt"
	"os"
	"strconv"

	json "github.com/goccy/go-json"

	"timeline-analyzer/internal/replay"
)

// DefaultItemValue is the gold value assumed for item ids missing from the
// table. Unknown ids are never an error.
const DefaultItemValue = 1000

// defaultItemValues is the built-in id → total-gold table used when no Data
// Dragon item file is supplied.
var defaultItemValues = map[int]int{
	1001: 300,  // Boots
	1029: 400,  // Cloth Armor
	1036: 350,  // Long Sword
	1052: 435,  // Amplifying Tome
	1058: 850,  // Needlessly Large Rod
	2003: 50,   // Health Potion
	2031: 500,  // Refillable Potion
	3006: 1100, // Berserker's Greaves
	3020: 1100, // Sorcerer's Shoes
	3031: 3400, // Infinity Edge
	3047: 1100, // Plated Steelcaps
	3072: 3300, // Bloodthirster
	3085: 2600, // Runaan's Hurricane
	3089: 3200, // Rabadon's Deathcap
	3094: 2600, // Rapid Firecannon
	3111: 1100, // Mercury's Treads
	3116: 2600, // Rylai's Crystal Scepter
	3135: 2700, // Void Staff
	3157: 2600, // Zhonya's Hourglass
	3165: 2200, // Morellonomicon
	3285: 3200, // Luden's Echo
	3340: 0,    // Stealth Ward
	3364: 0,    // Oracle Lens
}

// ItemTable is the static item → total-gold-value lookup. Read-only after
// construction.
type ItemTable struct {
	values       map[int]int
	defaultValue int
}

// DefaultItemTable returns the built-in table
func DefaultItemTable() *ItemTable {
	return &ItemTable{values: defaultItemValues, defaultValue: DefaultItemValue}
}

// NewItemTable builds a table from an explicit id → value map
func NewItemTable(values map[int]int, defaultValue int) *ItemTable {
	return &ItemTable{values: values, defaultValue: defaultValue}
}

// ddragonItem is the slice of a Data Dragon item entry we care about
type ddragonItem struct {
	Gold struct {
		Total int `json:"total"`
	} `json:"gold"`
}

// LoadItemTable reads a Data Dragon item.json file and builds a table from
// each item's gold.total.
func LoadItemTable(path string) (*ItemTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read item file: %w", err)
	}

	var doc struct {
		Data map[string]ddragonItem `json:"data"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse item file: %w", err)
	}
	if len(doc.Data) == 0 {
		return nil, fmt.Errorf("item file %s has no data section", path)
	}

	values := make(map[int]int, len(doc.Data))
	for idStr, item := range doc.Data {
		id, err := strconv.Atoi(idStr)
		if err != nil {
			continue
		}
		values[id] = item.Gold.Total
	}

	return &ItemTable{values: values, defaultValue: DefaultItemValue}, nil
}

// Value returns the gold value for an item id. Id 0 is an empty slot and
// always worth 0; unknown ids fall back to the configured default.
func (t *ItemTable) Value(id int) (value int, known bool) {
	if id == 0 {
		return 0, true
	}
	if v, ok := t.values[id]; ok {
		return v, true
	}
	return t.defaultValue, false
}

// TotalValue sums the values of an item list, counting unknown ids in diag
// when given.
func (t *ItemTable) TotalValue(items []int, diag *replay.Diagnostics) int {
	total := 0
	for _, id := range items {
		v, known := t.Value(id)
		if !known && diag != nil {
			diag.UnknownItems++
		}
		total += v
	}
	return total
}
