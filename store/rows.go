// Package store persists simulation output as zstd-compressed Parquet.
//
// Every file is written under outDir/tmp and renamed into outDir once
// closed, so readers never observe a partial file.
package store

// Schema names recorded in each file's key/value metadata.
const (
	SchemaTrace   = "snekpath_trace_v1"
	SchemaSummary = "snekpath_summary_v1"
)

// TraceRow is one tick of one game: the state the controller saw, what it
// decided and what the move did.
//
// Move is 0=Up, 1=Down, 2=Left, 3=Right. Coordinates have (0,0) at the top
// left.
type TraceRow struct {
	GameID string `parquet:"game_id,dict"`
	Tick   int32  `parquet:"tick"`
	Size   int32  `parquet:"size"`

	HeadX   int32   `parquet:"head_x"`
	HeadY   int32   `parquet:"head_y"`
	TargetX int32   `parquet:"target_x"`
	TargetY int32   `parquet:"target_y"`
	BodyX   []int32 `parquet:"body_x"`
	BodyY   []int32 `parquet:"body_y"`
	Length  int32   `parquet:"length"`

	Move      int32   `parquet:"move"`
	Source    string  `parquet:"source,dict"`
	Mode      string  `parquet:"mode,dict"`
	Occupancy float32 `parquet:"occupancy"`
	Outcome   string  `parquet:"outcome,dict"`
}

// GameSummary is one finished game.
type GameSummary struct {
	GameID string `parquet:"game_id,dict"`
	Seed   int64  `parquet:"seed"`
	Size   int32  `parquet:"size"`
	Policy string `parquet:"policy,dict"`

	Ticks  int32  `parquet:"ticks"`
	Length int32  `parquet:"length"`
	Eaten  int32  `parquet:"eaten"`
	Result string `parquet:"result,dict"`

	ModeSwitches int32 `parquet:"mode_switches"`
	AStar        int32 `parquet:"astar"`
	Cached       int32 `parquet:"cached"`
	Tail         int32 `parquet:"tail"`
	Shortcut     int32 `parquet:"shortcut"`
	Cycle        int32 `parquet:"cycle"`
	Greedy       int32 `parquet:"greedy"`
	Fallback     int32 `parquet:"fallback"`
	Doomed       int32 `parquet:"doomed"`

	DurationMicros int64 `parquet:"duration_us"`
}
