package commission

import "github.com/shopspring/decimal"

// SalaryRate es la fracción del salario que se reconoce como comisión base (10 %).
var SalaryRate = decimal.RequireFromString("0.10")

// Calculate implementa la fórmula de comisión con tope (servicio de dominio).
// ComisionCalculada = min(Salario * 0.10 + ComisionCSV, TopeComision)
func Calculate(salario, comision, tope decimal.Decimal) decimal.Decimal {
	return decimal.Min(salario.Mul(SalaryRate).Add(comision), tope)
}
