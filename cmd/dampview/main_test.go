package main

import "testing"

func TestParseDampingNegativeTags(t *testing.T) {
	when, level, typ, value := parseDamping("-2:-3:-1:0.25")
	if when != -2 || level != -3 || typ != -1 || value != 0.25 {
		t.Fatalf("parsed time=%v level=%d type=%d value=%v", when, level, typ, value)
	}
}
