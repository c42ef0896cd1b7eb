package engine

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"

	dragon "github.com/dylhunn/dragontoothmg"
)

// Startpos is the standard initial position.
const Startpos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

const NoMove dragon.Move = 0

type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) Other() Color { return c ^ 1 }

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// Status is the game-termination state of a position.
type Status int

const (
	Ongoing Status = iota
	Checkmate
	Stalemate
)

func (s Status) String() string {
	switch s {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	default:
		return "ongoing"
	}
}

// Position is an immutable chess position. Every operation that changes the
// board works on a copy, so a Position can be shared freely between search
// frames.
type Position struct {
	board dragon.Board
}

// ParsePosition builds a Position from FEN. Four-field FEN (no clocks) is accepted.
func ParsePosition(fen string) (Position, error) {
	fields, err := splitFen(fen)
	if err != nil {
		return Position{}, err
	}

	board, err := parseBoard(strings.Join(fields, " "))
	if err != nil {
		return Position{}, err
	}
	pos := Position{board: board}
	if err := pos.checkCastling(fields[2]); err != nil {
		return Position{}, err
	}

	// The side that just moved may not have left its king en prise.
	flipped := append([]string(nil), fields...)
	flipped[1] = otherSide(fields[1])
	flipped[3] = "-"
	other, err := parseBoard(strings.Join(flipped, " "))
	if err != nil {
		return Position{}, err
	}
	if other.OurKingInCheck() {
		return Position{}, fmt.Errorf("%w: side not to move is in check", ErrInvalidFen)
	}

	return pos, nil
}

// MustParsePosition is ParsePosition for fixtures known to be valid.
func MustParsePosition(fen string) Position {
	pos, err := ParsePosition(fen)
	if err != nil {
		panic(err)
	}
	return pos
}

// The generator trusts its input; anything splitFen lets through that still
// upsets it is reported as malformed rather than crashing the caller.
func parseBoard(fen string) (board dragon.Board, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrInvalidFen, r)
		}
	}()
	return dragon.ParseFen(fen), nil
}

func splitFen(fen string) ([]string, error) {
	fields := strings.Fields(fen)
	switch len(fields) {
	case 4:
		fields = append(fields, "0", "1")
	case 6:
	default:
		return nil, fmt.Errorf("%w: want 4 or 6 fields, got %d", ErrInvalidFen, len(fields))
	}

	if err := checkPlacement(fields[0]); err != nil {
		return nil, err
	}
	if fields[1] != "w" && fields[1] != "b" {
		return nil, fmt.Errorf("%w: side to move %q", ErrInvalidFen, fields[1])
	}
	if fields[2] != "-" {
		if len(fields[2]) > 4 || strings.Trim(fields[2], "KQkq") != "" {
			return nil, fmt.Errorf("%w: castling rights %q", ErrInvalidFen, fields[2])
		}
	}
	if ep := fields[3]; ep != "-" {
		if len(ep) != 2 || ep[0] < 'a' || ep[0] > 'h' || (ep[1] != '3' && ep[1] != '6') {
			return nil, fmt.Errorf("%w: en passant square %q", ErrInvalidFen, ep)
		}
	}
	for _, clock := range fields[4:] {
		if n, err := strconv.Atoi(clock); err != nil || n < 0 {
			return nil, fmt.Errorf("%w: clock %q", ErrInvalidFen, clock)
		}
	}

	return fields, nil
}

func checkPlacement(placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("%w: want 8 ranks, got %d", ErrInvalidFen, len(ranks))
	}

	kings := map[rune]int{}
	for i, rank := range ranks {
		files := 0
		for _, c := range rank {
			switch {
			case c >= '1' && c <= '8':
				files += int(c - '0')
			case strings.ContainsRune("pnbrqkPNBRQK", c):
				files++
				if c == 'k' || c == 'K' {
					kings[c]++
				}
			default:
				return fmt.Errorf("%w: bad piece %q", ErrInvalidFen, c)
			}
		}
		if files != 8 {
			return fmt.Errorf("%w: rank %d has %d files", ErrInvalidFen, 8-i, files)
		}
	}
	if kings['K'] != 1 || kings['k'] != 1 {
		return fmt.Errorf("%w: each side needs exactly one king", ErrInvalidFen)
	}
	// Pawns can never stand on the back ranks.
	if strings.ContainsAny(ranks[0]+ranks[7], "pP") {
		return fmt.Errorf("%w: pawn on a back rank", ErrInvalidFen)
	}

	return nil
}

// Each castling right needs its king and rook on their home squares, or the
// generator would castle with a rook that isn't there.
var castlingHomes = map[rune]struct {
	color      Color
	king, rook uint8
}{
	'K': {White, 4, 7},
	'Q': {White, 4, 0},
	'k': {Black, 60, 63},
	'q': {Black, 60, 56},
}

func (p Position) checkCastling(rights string) error {
	if rights == "-" {
		return nil
	}
	for _, right := range rights {
		home := castlingHomes[right]
		king, kingColor, kingOk := p.PieceAt(home.king)
		rook, rookColor, rookOk := p.PieceAt(home.rook)
		if !kingOk || king != dragon.King || kingColor != home.color ||
			!rookOk || rook != dragon.Rook || rookColor != home.color {
			return fmt.Errorf("%w: castling right %c without king on %s and rook on %s",
				ErrInvalidFen, right, SquareName(home.king), SquareName(home.rook))
		}
	}
	return nil
}

func otherSide(side string) string {
	if side == "w" {
		return "b"
	}
	return "w"
}

func (p Position) Fen() string {
	return p.board.ToFen()
}

func (p Position) WhiteToMove() bool {
	return p.board.Wtomove
}

func (p Position) SideToMove() Color {
	if p.board.Wtomove {
		return White
	}
	return Black
}

// LegalMoves returns the legal moves in the generator's order.
func (p Position) LegalMoves() []dragon.Move {
	return p.board.GenerateLegalMoves()
}

// Apply returns the position after m. The receiver is unchanged.
func (p Position) Apply(m dragon.Move) Position {
	next := p.board
	next.Apply(m)
	return Position{board: next}
}

// ApplyUCI applies a long algebraic move such as "e2e4" or "e7e8q".
func (p Position) ApplyUCI(move string) (Position, error) {
	want := strings.ToLower(move)
	for _, m := range p.LegalMoves() {
		if MoveString(m) == want {
			return p.Apply(m), nil
		}
	}
	return Position{}, fmt.Errorf("%w: %s in %s", ErrIllegalMove, move, p.Fen())
}

func (p Position) InCheck() bool {
	return p.board.OurKingInCheck()
}

func (p Position) Status() Status {
	return p.status(p.LegalMoves())
}

func (p Position) status(legalMoves []dragon.Move) Status {
	if len(legalMoves) != 0 {
		return Ongoing
	}
	if p.InCheck() {
		return Checkmate
	}
	return Stalemate
}

// NullMove passes the turn: the other side moves next and no en passant
// capture is available. Passing out of check is not a legal concept.
func (p Position) NullMove() (Position, error) {
	if p.InCheck() {
		return Position{}, ErrNullMoveInCheck
	}

	fields := strings.Fields(p.board.ToFen())
	if len(fields) < 4 {
		return Position{}, fmt.Errorf("%w: unexpected fen %q", ErrInvariant, p.board.ToFen())
	}
	fields[1] = otherSide(fields[1])
	fields[3] = "-"

	return Position{board: dragon.ParseFen(strings.Join(fields, " "))}, nil
}

func (p Position) bitboards(c Color) *dragon.Bitboards {
	if c == White {
		return &p.board.White
	}
	return &p.board.Black
}

// PieceAt reports the piece and its colour on square sq (0 = a1, 63 = h8).
func (p Position) PieceAt(sq uint8) (dragon.Piece, Color, bool) {
	bit := uint64(1) << sq
	if p.board.White.All&bit != 0 {
		return pieceOn(&p.board.White, bit), White, true
	}
	if p.board.Black.All&bit != 0 {
		return pieceOn(&p.board.Black, bit), Black, true
	}
	return dragon.Nothing, White, false
}

func pieceOn(bbs *dragon.Bitboards, bit uint64) dragon.Piece {
	switch {
	case bbs.Pawns&bit != 0:
		return dragon.Pawn
	case bbs.Knights&bit != 0:
		return dragon.Knight
	case bbs.Bishops&bit != 0:
		return dragon.Bishop
	case bbs.Rooks&bit != 0:
		return dragon.Rook
	case bbs.Queens&bit != 0:
		return dragon.Queen
	case bbs.Kings&bit != 0:
		return dragon.King
	}
	return dragon.Nothing
}

// Count returns the number of pieces of the given kind and colour.
func (p Position) Count(c Color, piece dragon.Piece) int {
	bbs := p.bitboards(c)
	switch piece {
	case dragon.Pawn:
		return bits.OnesCount64(bbs.Pawns)
	case dragon.Knight:
		return bits.OnesCount64(bbs.Knights)
	case dragon.Bishop:
		return bits.OnesCount64(bbs.Bishops)
	case dragon.Rook:
		return bits.OnesCount64(bbs.Rooks)
	case dragon.Queen:
		return bits.OnesCount64(bbs.Queens)
	case dragon.King:
		return bits.OnesCount64(bbs.Kings)
	}
	return 0
}

// Captures returns the legal moves landing on an opposing piece. En passant
// is not included since its destination square is empty.
func (p Position) Captures() []dragon.Move {
	return p.capturesOf(p.LegalMoves())
}

func (p Position) capturesOf(legalMoves []dragon.Move) []dragon.Move {
	theirs := p.bitboards(p.SideToMove().Other()).All
	captures := make([]dragon.Move, 0, len(legalMoves))
	for _, m := range legalMoves {
		if theirs&(uint64(1)<<m.To()) != 0 {
			captures = append(captures, m)
		}
	}
	return captures
}

var pieceLetters = [...]string{"", "p", "n", "b", "r", "q", "k"}

var pieceNames = [...]string{"none", "pawn", "knight", "bishop", "rook", "queen", "king"}

// PieceName renders a piece kind as a lower case word, "none" for no piece.
func PieceName(piece dragon.Piece) string {
	if int(piece) >= len(pieceNames) {
		return "none"
	}
	return pieceNames[piece]
}

// SquareName renders a square index in algebraic form, e.g. 12 -> "e2".
func SquareName(sq uint8) string {
	return string([]byte{'a' + sq&7, '1' + (sq>>3)&7})
}

// MoveString renders m in long algebraic (UCI) form.
func MoveString(m dragon.Move) string {
	s := SquareName(m.From()) + SquareName(m.To())
	if promo := m.Promote(); promo != dragon.Nothing && int(promo) < len(pieceLetters) {
		s += pieceLetters[promo]
	}
	return s
}
