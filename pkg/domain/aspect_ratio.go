package domain

import "github.com/samber/lo"

const DefaultAspectRatio = "1:1"

var AspectRatios = []string{
	"1:1", "16:9", "9:16", "4:3", "3:4",
	"3:2", "2:3", "4:5", "5:4", "21:9",
}

func IsAspectRatio(s string) bool {
	return lo.Contains(AspectRatios, s)
}
