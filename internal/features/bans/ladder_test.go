package bans

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextLevel(t *testing.T) {
	tests := []struct {
		name    string
		current int
		want    int
	}{
		{"первый бан", 0, 1},
		{"эскалация", 3, 4},
		{"предпоследний", 6, 7},
		{"потолок", 7, 7},
		{"кривой уровень выше потолка", 100, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextLevel(tt.current))
		})
	}
}

func TestDuration(t *testing.T) {
	tests := []struct {
		level int
		want  time.Duration
	}{
		{1, 24 * time.Hour},
		{2, 72 * time.Hour},
		{3, 7 * 24 * time.Hour},
		{4, 14 * 24 * time.Hour},
		{5, 30 * 24 * time.Hour},
		{6, 180 * 24 * time.Hour},
		{7, 365 * 24 * time.Hour},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Duration(tt.level), "уровень %d", tt.level)
	}

	// Неизвестный уровень откатывается к суткам
	assert.Equal(t, 24*time.Hour, Duration(0))
	assert.Equal(t, 24*time.Hour, Duration(8))
	assert.Equal(t, 24*time.Hour, Duration(-1))
}
