// Package audiofile reads WAV, AIFF, MP3 and Ogg Vorbis files into planar
// float64 channels and writes planar audio back out as PCM WAV.
package audiofile
