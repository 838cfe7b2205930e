package domain

import "errors"

// ErrDataNotFound indica que el fichero de datos históricos no existe.
// El caller no debe continuar con la simulación si lo recibe.
var ErrDataNotFound = errors.New("data file not found")
