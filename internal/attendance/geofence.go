package attendance

import "math"

// EarthRadiusMeters Haversine 公式使用的地球平均半径
const EarthRadiusMeters = 6371000.0

// DefaultRadiusMeters 未配置时的地理围栏半径
const DefaultRadiusMeters = 500.0

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// DistanceMeters 两个经纬度之间的大圆距离
func DistanceMeters(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := toRadians(lat1)
	phi2 := toRadians(lat2)
	dPhi := toRadians(lat2 - lat1)
	dLambda := toRadians(lng2 - lng1)

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	// 相同点或对跖点时舍入误差可能使 a 略超出 [0,1]
	a = math.Min(1, math.Max(0, a))

	return 2 * EarthRadiusMeters * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// WithinRadius 是否位于地点的地理围栏内
func WithinRadius(userLat, userLng, siteLat, siteLng, radiusMeters float64) bool {
	return DistanceMeters(userLat, userLng, siteLat, siteLng) <= radiusMeters
}
