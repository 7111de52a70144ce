package main

import (
	"fmt"

	"github.com/ebitengine/oto/v3"
)

// otoPlayer plays a stream headless through oto.
type otoPlayer struct {
	ctx    *oto.Context
	player *oto.Player
}

func newOtoPlayer(rate int, stream *AudioStream) (*otoPlayer, error) {
	op := &oto.NewContextOptions{
		SampleRate:   rate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   bufferLatency,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio device: %w", err)
	}
	<-ready

	p := &otoPlayer{ctx: ctx, player: ctx.NewPlayer(stream)}
	p.player.Play()
	return p, nil
}

func (p *otoPlayer) Close() error {
	return p.player.Close()
}
