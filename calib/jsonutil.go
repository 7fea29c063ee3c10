package calib

import "vive-lighthouse-xr-go/geom"

// The extraction helpers below decode a parsed `map[string]interface{}`
// JSON document by hand, the same style as the teacher's
// parseCalibrationConfigs (device/light_ov580.go): encoding/json into a
// generic map, then typed field-by-field pulls, tolerating absent
// optional fields (spec.md §6.3) and failing loudly on absent required
// ones (the caller decides which is which).

func getMap(m map[string]interface{}, key string) (map[string]interface{}, bool) {
	v, ok := m[key]
	if !ok {
		return nil, false
	}
	out, ok := v.(map[string]interface{})
	return out, ok
}

func getArray(m map[string]interface{}, key string) ([]interface{}, bool) {
	v, ok := m[key]
	if !ok {
		return nil, false
	}
	out, ok := v.([]interface{})
	return out, ok
}

func getFloat(m map[string]interface{}, key string) (float64, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	f, ok := v.(float64)
	return f, ok
}

func getInt(m map[string]interface{}, key string) (int, bool) {
	f, ok := getFloat(m, key)
	if !ok {
		return 0, false
	}
	return int(f), true
}

func getString(m map[string]interface{}, key string) (string, bool) {
	v, ok := m[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// getVec3 reads a 3-element numeric JSON array as a geom.Vec3.
func getVec3(m map[string]interface{}, key string) (geom.Vec3, bool) {
	arr, ok := getArray(m, key)
	if !ok || len(arr) < 3 {
		return geom.Vec3{}, false
	}
	x, ok1 := arr[0].(float64)
	y, ok2 := arr[1].(float64)
	z, ok3 := arr[2].(float64)
	if !ok1 || !ok2 || !ok3 {
		return geom.Vec3{}, false
	}
	return geom.NewVec3(x, y, z), true
}

// getCoeffs reads up to 4 leading entries of a numeric array,
// zero-padding the rest (spec.md §4.3).
func getCoeffs(m map[string]interface{}, key string) [4]float64 {
	var out [4]float64
	arr, ok := getArray(m, key)
	if !ok {
		return out
	}
	for i := 0; i < 4 && i < len(arr); i++ {
		if f, ok := arr[i].(float64); ok {
			out[i] = f
		}
	}
	return out
}

func getMatrix3(m map[string]interface{}, key string) ([3]geom.Vec3, bool) {
	var rows [3]geom.Vec3
	arr, ok := getArray(m, key)
	if !ok || len(arr) < 3 {
		return rows, false
	}
	for i := 0; i < 3; i++ {
		rowArr, ok := arr[i].([]interface{})
		if !ok || len(rowArr) < 3 {
			return rows, false
		}
		x, ok1 := rowArr[0].(float64)
		y, ok2 := rowArr[1].(float64)
		z, ok3 := rowArr[2].(float64)
		if !ok1 || !ok2 || !ok3 {
			return rows, false
		}
		rows[i] = geom.NewVec3(x, y, z)
	}
	return rows, true
}
