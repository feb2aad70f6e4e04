package rule

import "testing"

func TestStack(t *testing.T) {
	s := stack[token]{}

	if tk := s.pop(); tk != (token{}) {
		t.Error("expected empty value from an empty stack")
		return
	}

	if _, ok := s.peek(); ok {
		t.Error("expected peek on an empty stack to fail")
		return
	}

	tk1 := token{strValue: "1"}
	tk2 := token{strValue: "2"}
	tk3 := token{strValue: "3"}
	s.push(tk1)
	s.push(tk3)
	s.push(tk2)

	if s.len() != 3 {
		t.Errorf("expected 3 elements, got %d", s.len())
		return
	}

	if tk, ok := s.peek(); !ok || tk != tk2 {
		t.Errorf("expected %+v on top, but got %+v", tk2, tk)
		return
	}

	for _, want := range []token{tk2, tk3, tk1} {
		if tk := s.pop(); tk != want {
			t.Errorf("expected %+v, but got %+v", want, tk)
			return
		}
	}

	if tk := s.pop(); tk != (token{}) {
		t.Error("expected empty value from an empty stack")
	}
}
