package cpu

// StackDepth is the number of nested calls supported.
const StackDepth = 16

// Stack holds subroutine return addresses.
type Stack struct {
	data [StackDepth]uint16
	sp   int
}

func (s *Stack) Push(address uint16) error {
	if s.Full() {
		return ErrStackOverflow
	}
	s.data[s.sp] = address
	s.sp++
	return nil
}

func (s *Stack) Pop() (uint16, error) {
	if s.Empty() {
		return 0, ErrStackUnderflow
	}
	s.sp--
	return s.data[s.sp], nil
}

func (s *Stack) Len() int {
	return s.sp
}

func (s *Stack) Empty() bool {
	return s.sp == 0
}

func (s *Stack) Full() bool {
	return s.sp == StackDepth
}
