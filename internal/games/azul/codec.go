package azul

// Action encodes a Move as a single integer, the layout the MCTS/PUCT search uses for its
// policy vector: (source * NumColors * NumDestinations) + (color * NumDestinations) + dest,
// source ranging over the factories plus one slot for the center.
const NumDestinations = PatternRows + 1 // 5 pattern rows + floor

// ActionSpace returns the size of the per-state action space for a board with the given
// factory count (2p=5 factories+1 center=6 sources, 3p=8, 4p=10).
func ActionSpace(numFactories int) int {
	return (numFactories + 1) * NumColors * NumDestinations
}

// EncodeAction maps a Move to its flat action index.
func EncodeAction(m Move) int {
	return m.Source*NumColors*NumDestinations + int(m.Color)*NumDestinations + m.Destination
}

// DecodeAction is EncodeAction's inverse.
func DecodeAction(action int) Move {
	dest := action % NumDestinations
	rest := action / NumDestinations
	color := rest % NumColors
	source := rest / NumColors
	return Move{Source: source, Color: Color(color), Destination: dest}
}

// Mask returns a boolean vector of length ActionSpace(len(st.Factories)), true at every
// index EncodeAction assigns to a move that is currently legal in st: the fixed-shape
// companion to Encode a predictor uses to zero out illegal action probabilities before
// renormalizing (spec §4.3.1 Expansion: "call the predictor with (obs(leaf.state),
// mask(leaf.state))").
func Mask(st State) []bool {
	mask := make([]bool, ActionSpace(len(st.Factories)))
	for _, mv := range (Engine{}).LegalMoves(st) {
		mask[EncodeAction(mv.(Move))] = true
	}
	return mask
}

// Observation is the flattened, fixed-shape numeric encoding of a State (spec §4.2): a
// spatial block of one-hot planes per player (pattern lines + wall), a factories block, and
// a global block of scalars/one-hots. MCTS and any learned policy consume this instead of
// the raw State so that their tensors have one fixed layout regardless of which concrete
// game produced them.
type Observation struct {
	// PatternPlanes[p][c][row][col] is 1 if player p's pattern line `row` holds color c in
	// its first `col+1` slots (col < filled count), independent of whether the line is
	// complete yet.
	PatternPlanes [][NumColors][PatternRows][PatternRows]float32
	// WallPlanes[p][c][row][col] is 1 if player p's wall has a tile of color c at (row,col)
	// (equivalently, since color is determined by (col-row) mod 5, simply whether that cell is
	// filled -- but the per-color plane keeps the encoding uniform with PatternPlanes).
	WallPlanes [][NumColors][WallSize][WallSize]float32

	// Factories[f][c] is the tile count of color c on factory f (or, for the center column
	// at index numFactories, in the center).
	Factories [][NumColors]float32

	// Global per-player scalars, in seat order starting at the state's current mover.
	FloorLen      []float32
	Score         []float32
	RemainingWall [][NumColors]float32 // tiles of color c still missing from p's wall

	// FloorRows[p][slot] is the floor tile at that slot: a Color index, MarkerToken (the
	// first-player marker), or EmptySlot, one row of FloorSlots per player.
	FloorRows [][FloorSlots]float32

	// BonusPreview[p] is {completed_rows, completed_cols, completed_color_sets}: the same
	// wall-shape counts finalBonus scores at game end, exposed mid-game before they are paid
	// out. Lines that are only partly filled are not counted.
	BonusPreview [][3]float32

	// RemainingTiles[c] is the combined count of color c tiles not yet on any wall: bag +
	// discard + every factory + the center.
	RemainingTiles [NumColors]float32

	FirstMarkerInCenter float32
	RoundOneHot         []float32 // fixed 8 positions; round-1-indexed, clamped at slot 7
	BagRemaining        [NumColors]float32
	DiscardRemaining    [NumColors]float32

	CurrentPlayer int
}

// Encode builds the fixed-shape Observation for st, rotated so index 0 is always the
// player to move (the convention every AI core in this codebase uses so a single policy
// network or search tree never needs to know seat identity).
func Encode(st State) Observation {
	n := len(st.Players)
	obs := Observation{
		PatternPlanes:  make([][NumColors][PatternRows][PatternRows]float32, n),
		WallPlanes:     make([][NumColors][WallSize][WallSize]float32, n),
		Factories:      make([][NumColors]float32, len(st.Factories)+1),
		FloorLen:       make([]float32, n),
		Score:          make([]float32, n),
		RemainingWall:  make([][NumColors]float32, n),
		FloorRows:      make([][FloorSlots]float32, n),
		BonusPreview:   make([][3]float32, n),
		CurrentPlayer:  st.Turn,
	}

	for i := 0; i < n; i++ {
		seat := (st.Turn + i) % n
		p := st.Players[seat]

		for row := 0; row < PatternRows; row++ {
			if p.PatternColor[row] == EmptySlot {
				continue
			}
			c := p.PatternColor[row]
			for col := 0; col < p.PatternCount[row]; col++ {
				obs.PatternPlanes[i][c][row][col] = 1
			}
		}
		for row := 0; row < WallSize; row++ {
			for col := 0; col < WallSize; col++ {
				if !p.Wall[row][col] {
					continue
				}
				c := (col - row%NumColors + NumColors) % NumColors
				obs.WallPlanes[i][c][row][col] = 1
			}
		}
		for c := 0; c < NumColors; c++ {
			filled := 0
			for row := 0; row < WallSize; row++ {
				if p.Wall[row][wallColumn(row, Color(c))] {
					filled++
				}
			}
			obs.RemainingWall[i][c] = float32(WallSize - filled)
		}

		obs.FloorLen[i] = float32(p.FloorLen)
		obs.Score[i] = float32(p.Score)

		for slot := 0; slot < FloorSlots; slot++ {
			obs.FloorRows[i][slot] = float32(p.Floor[slot])
		}

		rows, cols, colorSets := wallBonusCounts(p.Wall)
		obs.BonusPreview[i] = [3]float32{float32(rows), float32(cols), float32(colorSets)}
	}

	for f, counts := range st.Factories {
		for c := 0; c < NumColors; c++ {
			obs.Factories[f][c] = float32(counts[c])
		}
	}
	for c := 0; c < NumColors; c++ {
		obs.Factories[len(st.Factories)][c] = float32(st.Center[c])
	}

	for c := 0; c < NumColors; c++ {
		total := st.Bag[c] + st.Discard[c] + st.Center[c]
		for _, f := range st.Factories {
			total += f[c]
		}
		obs.RemainingTiles[c] = float32(total)
	}

	if st.FirstMarkerInCenter {
		obs.FirstMarkerInCenter = 1
	}
	obs.RoundOneHot = make([]float32, 8)
	if st.Round > 0 {
		idx := min(st.Round-1, 7)
		obs.RoundOneHot[idx] = 1
	}
	for c := 0; c < NumColors; c++ {
		obs.BagRemaining[c] = float32(st.Bag[c])
		obs.DiscardRemaining[c] = float32(st.Discard[c])
	}

	return obs
}

// wallBonusCounts mirrors finalBonus's row/column/color-set completion checks but returns
// the raw counts rather than their point values, so a mid-game Observation can expose the
// bonuses a wall has already earned before they are paid out at game end.
func wallBonusCounts(wall [WallSize][WallSize]bool) (rows, cols, colorSets int) {
	for row := 0; row < WallSize; row++ {
		full := true
		for col := 0; col < WallSize; col++ {
			if !wall[row][col] {
				full = false
				break
			}
		}
		if full {
			rows++
		}
	}
	for col := 0; col < WallSize; col++ {
		full := true
		for row := 0; row < WallSize; row++ {
			if !wall[row][col] {
				full = false
				break
			}
		}
		if full {
			cols++
		}
	}
	for c := 0; c < NumColors; c++ {
		count := 0
		for row := 0; row < WallSize; row++ {
			if wall[row][wallColumn(row, Color(c))] {
				count++
			}
		}
		if count == WallSize {
			colorSets++
		}
	}
	return rows, cols, colorSets
}
