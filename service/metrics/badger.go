// Copyright 2021 Optakt Labs OÜ
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.

package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// RegisterBadgerMetrics exposes the expvar metrics that badger publishes about
// the signature index.
func RegisterBadgerMetrics(reg prometheus.Registerer) error {
	desc := func(name string, help string, labels ...string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "badger", name), help, labels, nil)
	}
	expvarCol := prometheus.NewExpvarCollector(map[string]*prometheus.Desc{
		"badger_v2_disk_reads_total":     desc("disk_reads_total", "cumulative number of reads"),
		"badger_v2_disk_writes_total":    desc("disk_writes_total", "cumulative number of writes"),
		"badger_v2_read_bytes":           desc("read_bytes", "cumulative number of bytes read"),
		"badger_v2_written_bytes":        desc("written_bytes", "cumulative number of bytes written"),
		"badger_v2_gets_total":           desc("gets_total", "number of gets"),
		"badger_v2_puts_total":           desc("puts_total", "number of puts"),
		"badger_v2_blocked_puts_total":   desc("blocked_puts_total", "number of blocked puts"),
		"badger_v2_pending_writes_total": desc("pending_writes_total", "number of pending writes", "path"),
		"badger_v2_lsm_size_bytes":       desc("lsm_size_bytes", "size of the LSM in bytes", "path"),
		"badger_v2_vlog_size_bytes":      desc("vlog_size_bytes", "size of the value log in bytes", "path"),
	})

	err := reg.Register(expvarCol)
	if err != nil {
		return fmt.Errorf("failed to register badger metrics: %w", err)
	}
	return nil
}
