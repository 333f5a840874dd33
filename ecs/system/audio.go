package system

import (
	"github.com/milk9111/pong/ecs"
	"github.com/milk9111/pong/ecs/component"
)

// AudioSystem starts and stops the clips flagged on each Audio component.
// Clips without a loaded player are cleared silently.
type AudioSystem struct{}

func NewAudioSystem() *AudioSystem {
	return &AudioSystem{}
}

func (a *AudioSystem) Update(w *ecs.World) {
	ecs.ForEach(w, component.AudioComponent.Kind(), func(_ ecs.Entity, audioComp *component.Audio) {
		for i := range audioComp.Play {
			if !audioComp.Play[i] {
				continue
			}
			audioComp.Play[i] = false

			if i >= len(audioComp.Players) || audioComp.Players[i] == nil {
				continue
			}
			player := audioComp.Players[i]
			if i < len(audioComp.Volume) {
				player.SetVolume(audioComp.Volume[i])
			}
			// Rapid bounces restart the clip rather than waiting for it to finish.
			player.Rewind()
			player.Play()
		}

		for i := range audioComp.Stop {
			if !audioComp.Stop[i] {
				continue
			}
			audioComp.Stop[i] = false

			if i < len(audioComp.Players) && audioComp.Players[i] != nil && audioComp.Players[i].IsPlaying() {
				audioComp.Players[i].Pause()
			}
		}
	})
}
