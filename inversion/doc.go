// SPDX-License-Identifier: MIT

// Package inversion runs one linear waveform inversion end to end.
//
// A Run is the explicit per-run context. It owns every input and result of
// the run and nothing is shared between runs:
//
//	cfg, err := inversion.LoadConfig("run.yaml")
//	run, err := inversion.New(cfg, logger)
//	err = run.Execute()
//
// Execute chains the four stages, which may also be called one by one:
//
//   - Load reads the waveform and partial ID/payload pairs, the parameter
//     catalog and the timewindow file.
//   - Assemble pairs observed and synthetic records into the weighted data
//     vector and places every partial into the design matrix.
//   - Solve runs each configured method on the normal equations.
//   - Report writes, per method, one model file per rank, summary.txt with
//     variance and AIC, per-event and per-station variance files, and
//     optionally the Born waveforms of one rank.
//
// Configuration is a YAML file decoded into Config; Validate fills in the
// defaults.
package inversion
