package domain

// TrackSource represents the origin platform of a track.
type TrackSource string

const (
	TrackSourceYouTube    TrackSource = "youtube"
	TrackSourceSoundCloud TrackSource = "soundcloud"
	TrackSourceBandcamp   TrackSource = "bandcamp"
	TrackSourceTwitch     TrackSource = "twitch"
	TrackSourceOther      TrackSource = "other"
)

// ParseTrackSource converts a source name string to a TrackSource.
func ParseTrackSource(name string) TrackSource {
	switch name {
	case "youtube":
		return TrackSourceYouTube
	case "soundcloud":
		return TrackSourceSoundCloud
	case "bandcamp":
		return TrackSourceBandcamp
	case "twitch":
		return TrackSourceTwitch
	default:
		return TrackSourceOther
	}
}

// Color returns the embed accent color associated with the platform.
func (s TrackSource) Color() int {
	switch s {
	case TrackSourceYouTube:
		return 0xFF0000
	case TrackSourceSoundCloud:
		return 0xFF5500
	case TrackSourceBandcamp:
		return 0x629AA9
	case TrackSourceTwitch:
		return 0x9146FF
	default:
		return 0x5865F2
	}
}
