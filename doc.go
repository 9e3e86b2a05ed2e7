// Package n25q drives a Micron N25Q256A serial NOR flash behind a QSPI
// controller. The command/polling protocol lives here; the bus itself is
// abstracted by the Transport interface so the same driver runs against a
// quad-capable controller, a plain SPI bus (see extspi), or the in-memory
// simulator (see n25qtest).
//
// # References:
//
// Micron (https://www.micron.com/products/nor-flash/serial-nor-flash)
//   - [N25Q256A]: N25Q256A 256Mb 3V NOR Flash Memory datasheet (n25q_256mb_3v_65nm.pdf)
//
// STMicroelectronics (https://www.st.com)
//   - [RM0351]: STM32L4x5/L4x6 Reference Manual, QUADSPI chapter (https://www.st.com/resource/en/reference_manual/rm0351-stm32l47xxx-stm32l48xxx-stm32l49xxx-and-stm32l4axxx-advanced-armbased-32bit-mcus-stmicroelectronics.pdf)
//   - [AN4760]: Quad-SPI interface on STM32 microcontrollers (https://www.st.com/resource/en/application_note/an4760-quadspi-interface-on-stm32-microcontrollers-and-microprocessors-stmicroelectronics.pdf)
//   - [UM1855]: Evaluation board with STM32L476ZG MCU (https://www.st.com/resource/en/user_manual/um1855-evaluation-board-with-stm32l476zg-mcu-stmicroelectronics.pdf)
package n25q
