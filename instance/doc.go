// Package instance reads, writes and generates assignment instances: named
// resources and zones around a cost matrix and a capacity vector.
//
// Formats:
//   - YAML (gopkg.in/yaml.v3), which also accepts JSON documents:
//
//     name: demo
//     resources: [alice, bob, carol]
//     zones: [north, south]
//     capacity: [1, 1]
//     cost:
//     - [1, 4]
//     - [2, 3]
//     - [5, 1]
//
//   - CSV: a header row of zone names (first cell ignored), one row per
//     resource (name, then one cost per zone), and a row whose first cell is
//     "capacity" holding the zone minimums.
//
// Generate builds deterministic random instances from a seed.
package instance
